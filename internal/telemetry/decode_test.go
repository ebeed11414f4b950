package telemetry

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeFullPayload(t *testing.T) {
	payload := `{
		"robot_id": 2, "robot_name": "striker", "team_id": 7, "timestamp": 123.5,
		"game": {"state": "PLAY", "kickoff_side": true, "score": 3},
		"robot": {
			"pose": {"x": 1.5, "y": -0.5, "theta": 0.7},
			"ball": {"detected": true, "x": 2.0, "y": 0.1, "range": 1.1}
		},
		"collaboration": {"role": "striker", "dynamic_role": 1, "has_possession": true, "possession_player": 2, "ball_cost": 0.9},
		"behavior": {"decision": "kick_ball", "ball_location_known": true},
		"performance": {"avg_loop_time": 0.015, "max_loop_time": 0.03},
		"head": {"pitch": 0.1, "yaw": -0.2},
		"recovery": {"state": 1, "available": true},
		"team_count": 2
	}`

	id, upd, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if id != 2 {
		t.Errorf("id = %d, want 2", id)
	}

	rec := NewRecord(id)
	upd.Apply(&rec)

	if rec.RobotName != "striker" || rec.TeamID != 7 || rec.Timestamp != 123.5 {
		t.Errorf("identity fields wrong: %+v", rec)
	}
	if rec.GameState != "PLAY" || !rec.KickoffSide || rec.Score != 3 {
		t.Errorf("game fields wrong: %+v", rec)
	}
	if rec.PoseX != 1.5 || rec.PoseY != -0.5 || rec.PoseTheta != 0.7 {
		t.Errorf("pose fields wrong: %+v", rec)
	}
	if !rec.BallDetected || rec.BallRange != 1.1 {
		t.Errorf("ball fields wrong: %+v", rec)
	}
	if rec.Role != "striker" || rec.DynamicRole != 1 || !rec.HasPossession || rec.PossessionPlayer != 2 || rec.BallCost != 0.9 {
		t.Errorf("collaboration fields wrong: %+v", rec)
	}
	if rec.Decision != "kick_ball" || !rec.BallLocationKnown {
		t.Errorf("behavior fields wrong: %+v", rec)
	}
	if rec.AvgLoopTime != 0.015 || rec.MaxLoopTime != 0.03 {
		t.Errorf("performance fields wrong: %+v", rec)
	}
	if rec.HeadPitch != 0.1 || rec.HeadYaw != -0.2 {
		t.Errorf("head fields wrong: %+v", rec)
	}
	if rec.RecoveryState != 1 || !rec.RecoveryAvailable {
		t.Errorf("recovery fields wrong: %+v", rec)
	}
	if rec.TeamCount != 2 {
		t.Errorf("team_count = %d, want 2", rec.TeamCount)
	}
}

func TestDecodeMinimalPayloadDefaults(t *testing.T) {
	id, upd, err := Decode([]byte(`{"robot_id": 1, "game": {"state": "PLAYING", "score": 2}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}

	rec := NewRecord(id)
	upd.Apply(&rec)

	if rec.GameState != "PLAYING" || rec.Score != 2 {
		t.Errorf("game = %q/%d, want PLAYING/2", rec.GameState, rec.Score)
	}
	if rec.KickoffSide {
		t.Error("kickoff_side should default false inside a present game section")
	}
	if rec.PoseX != 0 || rec.PoseY != 0 || rec.PoseTheta != 0 {
		t.Errorf("pose should stay at defaults, got (%v, %v, %v)", rec.PoseX, rec.PoseY, rec.PoseTheta)
	}
	if rec.RobotName != "robot1" {
		t.Errorf("name = %q, want robot1", rec.RobotName)
	}
	if rec.Role != "unknown" || rec.DynamicRole != -1 || rec.PossessionPlayer != -1 {
		t.Errorf("collaboration defaults wrong: %+v", rec)
	}
}

func TestDecodeAbsentSectionsAreNil(t *testing.T) {
	_, upd, err := Decode([]byte(`{"robot_id": 4, "game": {"state": "SET"}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if upd.Game == nil {
		t.Fatal("game section should be present")
	}
	if upd.Collaboration != nil || upd.Behavior != nil || upd.Pose != nil || upd.Ball != nil {
		t.Error("absent sections must decode to nil so prior values survive a merge")
	}
	if upd.RobotName != nil || upd.TeamID != nil {
		t.Error("absent top-level fields must decode to nil")
	}
}

func TestDecodeStructuralFailures(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{not json`},
		{"missing id", `{"robot_name": "ghost"}`},
		{"negative id", `{"robot_id": -1}`},
		{"string id", `{"robot_id": "five"}`},
		{"empty", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tc.payload))
			if err == nil {
				t.Fatalf("Decode(%q) should fail", tc.payload)
			}
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("error should be *DecodeError, got %T", err)
			}
		})
	}
}

func TestDecodeErrorCarriesExcerpt(t *testing.T) {
	payload := `{not json ` + strings.Repeat("x", 300)
	_, _, err := Decode([]byte(payload))
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error should be *DecodeError, got %T", err)
	}
	if derr.Excerpt == "" {
		t.Error("excerpt should carry payload context")
	}
	if len(derr.Excerpt) > excerptLen+3 {
		t.Errorf("excerpt too long: %d bytes", len(derr.Excerpt))
	}
}

func TestDecodeWrongTypedFieldsFallBack(t *testing.T) {
	payload := `{
		"robot_id": 3,
		"robot_name": 42,
		"team_id": "seven",
		"game": {"state": 9, "score": "two", "kickoff_side": 1},
		"collaboration": {"role": false, "has_possession": "yes", "ball_cost": "high"}
	}`
	id, upd, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("wrong-typed fields must not fail the datagram: %v", err)
	}

	rec := NewRecord(id)
	upd.Apply(&rec)

	if rec.RobotName != "robot3" {
		t.Errorf("name = %q, want fallback robot3", rec.RobotName)
	}
	if rec.TeamID != -1 {
		t.Errorf("team_id = %d, want default -1", rec.TeamID)
	}
	if rec.GameState != "UNKNOWN" || rec.Score != 0 {
		t.Errorf("game = %q/%d, want UNKNOWN/0", rec.GameState, rec.Score)
	}
	if !rec.KickoffSide {
		t.Error("kickoff_side = false, want true (numeric 1 coerces)")
	}
	if rec.Role != "unknown" || rec.BallCost != 0 {
		t.Errorf("collaboration fallbacks wrong: %+v", rec)
	}
	if !rec.HasPossession {
		t.Error("has_possession = false, want true (nonempty string coerces)")
	}
}

func TestDecodeGarbledSectionTreatedAsAbsent(t *testing.T) {
	_, upd, err := Decode([]byte(`{"robot_id": 6, "game": "PLAY", "robot": []}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if upd.Game != nil || upd.Pose != nil || upd.Ball != nil {
		t.Error("non-object sections should be treated as absent")
	}
}

func TestDecodeNegativeScoreClamped(t *testing.T) {
	_, upd, err := Decode([]byte(`{"robot_id": 0, "game": {"score": -4}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if upd.Game.Score != 0 {
		t.Errorf("score = %d, want 0", upd.Game.Score)
	}
}

func TestBoolCoercion(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{1.0, true},
		{0.0, false},
		{"yes", true},
		{"", false},
		{nil, false},
		{map[string]any{}, false},
	}
	for _, tc := range cases {
		if got := asBool(tc.in); got != tc.want {
			t.Errorf("asBool(%v) = %t, want %t", tc.in, got, tc.want)
		}
	}
}
