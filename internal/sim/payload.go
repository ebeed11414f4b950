package sim

// Payload mirrors the telemetry wire format exactly; key names and
// nesting must match what real robots send.
type Payload struct {
	RobotID       int                  `json:"robot_id"`
	RobotName     string               `json:"robot_name"`
	TeamID        int                  `json:"team_id"`
	Timestamp     float64              `json:"timestamp"`
	Game          GamePayload          `json:"game"`
	Robot         BodyPayload          `json:"robot"`
	Collaboration CollaborationPayload `json:"collaboration"`
	Behavior      BehaviorPayload      `json:"behavior"`
	Performance   PerformancePayload   `json:"performance"`
	Head          HeadPayload          `json:"head"`
	Recovery      RecoveryPayload      `json:"recovery"`
	TeamCount     int                  `json:"team_count"`
}

type GamePayload struct {
	State       string `json:"state"`
	KickoffSide bool   `json:"kickoff_side"`
	Score       int    `json:"score"`
}

type BodyPayload struct {
	Pose PosePayload `json:"pose"`
	Ball BallPayload `json:"ball"`
}

type PosePayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

type BallPayload struct {
	Detected bool    `json:"detected"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Range    float64 `json:"range"`
}

type CollaborationPayload struct {
	Role             string  `json:"role"`
	DynamicRole      int     `json:"dynamic_role"`
	HasPossession    bool    `json:"has_possession"`
	PossessionPlayer int     `json:"possession_player"`
	BallCost         float64 `json:"ball_cost"`
}

type BehaviorPayload struct {
	Decision          string `json:"decision"`
	BallLocationKnown bool   `json:"ball_location_known"`
}

type PerformancePayload struct {
	AvgLoopTime float64 `json:"avg_loop_time"`
	MaxLoopTime float64 `json:"max_loop_time"`
}

type HeadPayload struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

type RecoveryPayload struct {
	State     int  `json:"state"`
	Available bool `json:"available"`
}
