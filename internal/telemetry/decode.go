package telemetry

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports a datagram that could not be keyed to any robot:
// either not valid JSON at all, or missing a usable robot_id. Such
// datagrams are dropped without touching the store.
type DecodeError struct {
	Reason  string
	Excerpt string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode telemetry: %s (payload %q)", e.Reason, e.Excerpt)
}

const excerptLen = 120

func excerpt(payload []byte) string {
	if len(payload) > excerptLen {
		return string(payload[:excerptLen]) + "..."
	}
	return string(payload)
}

// Decode parses one datagram payload. It returns the robot id and the
// sections the sender supplied. Individual fields of the wrong type fall
// back to their defaults; only an unparseable payload or a missing or
// negative robot_id is an error.
func Decode(payload []byte) (int, Update, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return 0, Update{}, &DecodeError{Reason: err.Error(), Excerpt: excerpt(payload)}
	}

	idVal, ok := raw["robot_id"]
	if !ok {
		return 0, Update{}, &DecodeError{Reason: "missing robot_id", Excerpt: excerpt(payload)}
	}
	id := asInt(idVal, -1)
	if id < 0 {
		return 0, Update{}, &DecodeError{Reason: fmt.Sprintf("invalid robot_id %v", idVal), Excerpt: excerpt(payload)}
	}

	var upd Update
	if v, present := raw["robot_name"]; present {
		s := asString(v, fmt.Sprintf("robot%d", id))
		upd.RobotName = &s
	}
	if v, present := raw["team_id"]; present {
		n := asInt(v, -1)
		upd.TeamID = &n
	}
	if v, present := raw["timestamp"]; present {
		f := asFloat(v, 0)
		upd.Timestamp = &f
	}
	if v, present := raw["team_count"]; present {
		n := asInt(v, 0)
		upd.TeamCount = &n
	}

	if game, present := section(raw, "game"); present {
		upd.Game = &GameUpdate{
			State:       asString(game["state"], "UNKNOWN"),
			KickoffSide: asBool(game["kickoff_side"]),
			Score:       asInt(game["score"], 0),
		}
		if upd.Game.Score < 0 {
			upd.Game.Score = 0
		}
	}

	if robot, present := section(raw, "robot"); present {
		if pose, ok := section(robot, "pose"); ok {
			upd.Pose = &PoseUpdate{
				X:     asFloat(pose["x"], 0),
				Y:     asFloat(pose["y"], 0),
				Theta: asFloat(pose["theta"], 0),
			}
		}
		if ball, ok := section(robot, "ball"); ok {
			upd.Ball = &BallUpdate{
				Detected: asBool(ball["detected"]),
				X:        asFloat(ball["x"], 0),
				Y:        asFloat(ball["y"], 0),
				Range:    asFloat(ball["range"], 0),
			}
		}
	}

	if collab, present := section(raw, "collaboration"); present {
		upd.Collaboration = &CollaborationUpdate{
			Role:             asString(collab["role"], "unknown"),
			DynamicRole:      asInt(collab["dynamic_role"], -1),
			HasPossession:    asBool(collab["has_possession"]),
			PossessionPlayer: asInt(collab["possession_player"], -1),
			BallCost:         asFloat(collab["ball_cost"], 0),
		}
	}

	if behavior, present := section(raw, "behavior"); present {
		upd.Behavior = &BehaviorUpdate{
			Decision:          asString(behavior["decision"], "unknown"),
			BallLocationKnown: asBool(behavior["ball_location_known"]),
		}
	}

	if perf, present := section(raw, "performance"); present {
		upd.Performance = &PerformanceUpdate{
			AvgLoopTime: asFloat(perf["avg_loop_time"], 0),
			MaxLoopTime: asFloat(perf["max_loop_time"], 0),
		}
	}

	if head, present := section(raw, "head"); present {
		upd.Head = &HeadUpdate{
			Pitch: asFloat(head["pitch"], 0),
			Yaw:   asFloat(head["yaw"], 0),
		}
	}

	if recovery, present := section(raw, "recovery"); present {
		upd.Recovery = &RecoveryUpdate{
			State:     asInt(recovery["state"], 0),
			Available: asBool(recovery["available"]),
		}
	}

	return id, upd, nil
}

// section returns the named sub-object. A key that is present but not an
// object is treated as absent, so a garbled section leaves the stored
// record's prior values alone rather than resetting them.
func section(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func asFloat(v any, def float64) float64 {
	f, ok := v.(float64)
	if !ok {
		return def
	}
	return f
}

func asInt(v any, def int) int {
	f, ok := v.(float64)
	if !ok {
		return def
	}
	return int(f)
}

func asString(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// asBool coerces the way loose senders expect: JSON booleans as-is,
// nonzero numbers and nonempty strings count as true.
func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}
