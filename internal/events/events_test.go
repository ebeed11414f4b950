package events

import (
	"log/slog"
	"os"
	"testing"

	"fieldwatch/internal/telemetry"
)

func testRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestNotifyCallsAllObservers(t *testing.T) {
	r := testRegistry()
	var calls [2]int
	r.Register(func(int, telemetry.Record) { calls[0]++ })
	r.Register(func(int, telemetry.Record) { calls[1]++ })

	r.Notify(1, telemetry.NewRecord(1))

	if calls[0] != 1 || calls[1] != 1 {
		t.Errorf("expected both observers called once, got %v", calls)
	}
}

func TestNotifyRegistrationOrder(t *testing.T) {
	r := testRegistry()
	var order []int
	r.Register(func(int, telemetry.Record) { order = append(order, 1) })
	r.Register(func(int, telemetry.Record) { order = append(order, 2) })
	r.Register(func(int, telemetry.Record) { order = append(order, 3) })

	r.Notify(0, telemetry.NewRecord(0))

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestNotifyPassesRecord(t *testing.T) {
	r := testRegistry()
	var gotID int
	var gotRec telemetry.Record
	r.Register(func(id int, rec telemetry.Record) {
		gotID = id
		gotRec = rec
	})

	rec := telemetry.NewRecord(5)
	rec.GameState = "PLAY"
	r.Notify(5, rec)

	if gotID != 5 || gotRec.GameState != "PLAY" {
		t.Errorf("got id=%d rec=%+v", gotID, gotRec)
	}
}

func TestPanickingObserverIsIsolated(t *testing.T) {
	r := testRegistry()
	var after int
	r.Register(func(int, telemetry.Record) { panic("misbehaving observer") })
	r.Register(func(int, telemetry.Record) { after++ })

	r.Notify(1, telemetry.NewRecord(1))

	if after != 1 {
		t.Errorf("observer after the panicking one ran %d times, want 1", after)
	}
}

func TestNotifyNoObserversNoPanic(t *testing.T) {
	r := testRegistry()
	r.Notify(1, telemetry.NewRecord(1)) // should not panic
}
