package telemetry

import (
	"fmt"
	"time"
)

// Record is the latest known state of one robot, flattened from the wire
// format. Field defaults match what robots that omit a section would report.
type Record struct {
	RobotID   int     `json:"robot_id"`
	RobotName string  `json:"robot_name"`
	TeamID    int     `json:"team_id"`
	Timestamp float64 `json:"timestamp"`

	// LastSeen is set locally on every accepted datagram; robots' own
	// clocks are not trusted for liveness.
	LastSeen time.Time `json:"last_seen"`

	GameState   string `json:"game_state"`
	KickoffSide bool   `json:"kickoff_side"`
	Score       int    `json:"score"`

	PoseX     float64 `json:"pose_x"`
	PoseY     float64 `json:"pose_y"`
	PoseTheta float64 `json:"pose_theta"`

	BallDetected bool    `json:"ball_detected"`
	BallX        float64 `json:"ball_x"`
	BallY        float64 `json:"ball_y"`
	BallRange    float64 `json:"ball_range"`

	Role             string  `json:"role"`
	DynamicRole      int     `json:"dynamic_role"`
	HasPossession    bool    `json:"has_possession"`
	PossessionPlayer int     `json:"possession_player"`
	BallCost         float64 `json:"ball_cost"`

	Decision          string `json:"decision"`
	BallLocationKnown bool   `json:"ball_location_known"`

	AvgLoopTime float64 `json:"avg_loop_time"`
	MaxLoopTime float64 `json:"max_loop_time"`

	HeadPitch float64 `json:"head_pitch"`
	HeadYaw   float64 `json:"head_yaw"`

	RecoveryState     int  `json:"recovery_state"`
	RecoveryAvailable bool `json:"recovery_available"`

	TeamCount int `json:"team_count"`

	// Connected is owned by the liveness sweeper: true while the robot's
	// last-seen age is within the connect timeout.
	Connected bool `json:"connected"`
}

// NewRecord returns a record for a robot never seen before, with every
// field at its wire default.
func NewRecord(id int) Record {
	return Record{
		RobotID:          id,
		RobotName:        fmt.Sprintf("robot%d", id),
		TeamID:           -1,
		GameState:        "UNKNOWN",
		Role:             "unknown",
		DynamicRole:      -1,
		PossessionPlayer: -1,
		Decision:         "unknown",
	}
}

// Update carries the sections present in a single datagram. A nil section
// means the sender omitted it and the stored record keeps its prior values;
// a non-nil section replaces the record's section wholesale.
type Update struct {
	RobotName *string
	TeamID    *int
	Timestamp *float64
	TeamCount *int

	Game          *GameUpdate
	Pose          *PoseUpdate
	Ball          *BallUpdate
	Collaboration *CollaborationUpdate
	Behavior      *BehaviorUpdate
	Performance   *PerformanceUpdate
	Head          *HeadUpdate
	Recovery      *RecoveryUpdate
}

type GameUpdate struct {
	State       string
	KickoffSide bool
	Score       int
}

type PoseUpdate struct {
	X, Y, Theta float64
}

type BallUpdate struct {
	Detected bool
	X, Y     float64
	Range    float64
}

type CollaborationUpdate struct {
	Role             string
	DynamicRole      int
	HasPossession    bool
	PossessionPlayer int
	BallCost         float64
}

type BehaviorUpdate struct {
	Decision          string
	BallLocationKnown bool
}

type PerformanceUpdate struct {
	AvgLoopTime float64
	MaxLoopTime float64
}

type HeadUpdate struct {
	Pitch, Yaw float64
}

type RecoveryUpdate struct {
	State     int
	Available bool
}

// Apply merges the update into the record. Only present sections change.
func (u Update) Apply(rec *Record) {
	if u.RobotName != nil {
		rec.RobotName = *u.RobotName
	}
	if u.TeamID != nil {
		rec.TeamID = *u.TeamID
	}
	if u.Timestamp != nil {
		rec.Timestamp = *u.Timestamp
	}
	if u.TeamCount != nil {
		rec.TeamCount = *u.TeamCount
	}
	if u.Game != nil {
		rec.GameState = u.Game.State
		rec.KickoffSide = u.Game.KickoffSide
		rec.Score = u.Game.Score
	}
	if u.Pose != nil {
		rec.PoseX = u.Pose.X
		rec.PoseY = u.Pose.Y
		rec.PoseTheta = u.Pose.Theta
	}
	if u.Ball != nil {
		rec.BallDetected = u.Ball.Detected
		rec.BallX = u.Ball.X
		rec.BallY = u.Ball.Y
		rec.BallRange = u.Ball.Range
	}
	if u.Collaboration != nil {
		rec.Role = u.Collaboration.Role
		rec.DynamicRole = u.Collaboration.DynamicRole
		rec.HasPossession = u.Collaboration.HasPossession
		rec.PossessionPlayer = u.Collaboration.PossessionPlayer
		rec.BallCost = u.Collaboration.BallCost
	}
	if u.Behavior != nil {
		rec.Decision = u.Behavior.Decision
		rec.BallLocationKnown = u.Behavior.BallLocationKnown
	}
	if u.Performance != nil {
		rec.AvgLoopTime = u.Performance.AvgLoopTime
		rec.MaxLoopTime = u.Performance.MaxLoopTime
	}
	if u.Head != nil {
		rec.HeadPitch = u.Head.Pitch
		rec.HeadYaw = u.Head.Yaw
	}
	if u.Recovery != nil {
		rec.RecoveryState = u.Recovery.State
		rec.RecoveryAvailable = u.Recovery.Available
	}
}
