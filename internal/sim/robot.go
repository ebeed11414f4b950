package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

var (
	gameStates = []string{"INITIAL", "READY", "SET", "PLAY", "END"}
	roles      = []string{"master", "slave", "striker", "goalkeeper", "follower"}
	decisions  = []string{"search_ball", "approach_ball", "kick_ball", "defend_goal", "position"}
)

// Field bounds the robots stay within, in meters.
const (
	fieldX = 4.5
	fieldY = 3.0
)

// Robot simulates one robot: target-seeking motion on the field, noisy
// ball perception, rotating game state and behavior decisions.
type Robot struct {
	id     int
	teamID int
	name   string
	rng    *rand.Rand

	poseX, poseY, poseTheta float64
	targetX, targetY        float64
	speed                   float64 // m/s

	gameStateIdx int
	score        int

	ballDetected bool
	ballX, ballY float64
	ballRange    float64

	role          string
	dynamicRole   int
	hasPossession bool
	ballCost      float64
	decision      string
	avgLoopTime   float64
	maxLoopTime   float64
	headPitch     float64
	headYaw       float64

	lastTargetChange    time.Time
	lastGameStateChange time.Time
	nextTargetAfter     time.Duration
	nextGameStateAfter  time.Duration
}

// NewRobot creates a robot with randomized starting state, mirroring
// what a freshly booted robot on the field reports.
func NewRobot(id, teamID int, rng *rand.Rand) *Robot {
	r := &Robot{
		id:          id,
		teamID:      teamID,
		name:        robotName(id),
		rng:         rng,
		poseX:       rng.Float64()*6 - 3,
		poseY:       rng.Float64()*4 - 2,
		poseTheta:   rng.Float64() * 2 * math.Pi,
		speed:       0.5,
		role:        roles[rng.Intn(2)],
		dynamicRole: id,
		ballCost:    0.5 + rng.Float64()*4.5,
		decision:    decisions[rng.Intn(len(decisions))],
		avgLoopTime: 0.008 + rng.Float64()*0.017,
		headPitch:   rng.Float64() - 0.5,
		headYaw:     rng.Float64()*2 - 1,
	}
	r.targetX = r.poseX
	r.targetY = r.poseY
	r.maxLoopTime = r.avgLoopTime * (1.5 + rng.Float64()*1.5)
	now := time.Now()
	r.lastTargetChange = now
	r.lastGameStateChange = now
	r.nextTargetAfter = r.uniformDuration(3, 8)
	r.nextGameStateAfter = r.uniformDuration(10, 30)
	return r
}

func robotName(id int) string {
	return fmt.Sprintf("robot%d", id+1)
}

func (r *Robot) uniformDuration(lo, hi float64) time.Duration {
	return time.Duration((lo + r.rng.Float64()*(hi-lo)) * float64(time.Second))
}

// Step advances the robot by dt, perceiving the ball at (ballX, ballY).
func (r *Robot) Step(dt float64, ballX, ballY float64) {
	now := time.Now()

	dx := r.targetX - r.poseX
	dy := r.targetY - r.poseY
	dist := math.Hypot(dx, dy)
	if dist > 0.1 {
		move := math.Min(r.speed*dt, dist)
		r.poseX += dx / dist * move
		r.poseY += dy / dist * move
		r.poseTheta = math.Atan2(dy, dx) + (r.rng.Float64()-0.5)*0.2
	}

	if now.Sub(r.lastTargetChange) > r.nextTargetAfter {
		r.targetX = r.rng.Float64()*8 - 4
		r.targetY = r.rng.Float64()*5 - 2.5
		r.lastTargetChange = now
		r.nextTargetAfter = r.uniformDuration(3, 8)
	}

	ballDist := math.Hypot(ballX-r.poseX, ballY-r.poseY)
	detectionRange := 3.0 + (r.rng.Float64()-0.5)
	r.ballDetected = ballDist < detectionRange
	if r.ballDetected {
		r.ballX = ballX + (r.rng.Float64()-0.5)*0.4
		r.ballY = ballY + (r.rng.Float64()-0.5)*0.4
		r.ballRange = ballDist + (r.rng.Float64()-0.5)*0.2
		r.hasPossession = ballDist < 0.5 && r.rng.Float64() < 0.3
		r.ballCost = ballDist + 0.1 + r.rng.Float64()*0.4
		angleToBall := math.Atan2(ballY-r.poseY, ballX-r.poseX)
		r.headYaw = angleToBall - r.poseTheta + (r.rng.Float64()-0.5)*0.2
		r.headPitch = (r.rng.Float64() - 0.5) * 0.4
	} else {
		r.hasPossession = false
		r.ballX, r.ballY, r.ballRange = 0, 0, 0
		r.headYaw = r.rng.Float64()*2 - 1
		r.headPitch = (r.rng.Float64() - 0.5) * 0.6
	}

	if now.Sub(r.lastGameStateChange) > r.nextGameStateAfter {
		r.gameStateIdx = (r.gameStateIdx + 1) % len(gameStates)
		r.lastGameStateChange = now
		r.nextGameStateAfter = r.uniformDuration(10, 30)
		if r.rng.Float64() < 0.1 {
			r.score++
		}
	}

	if r.rng.Float64() < 0.1 {
		r.decision = decisions[r.rng.Intn(len(decisions))]
	}

	r.avgLoopTime = 0.015 + (r.rng.Float64()*0.015 - 0.005)
	r.maxLoopTime = r.avgLoopTime * (1.2 + r.rng.Float64()*1.3)

	r.poseX = math.Max(-fieldX, math.Min(fieldX, r.poseX))
	r.poseY = math.Max(-fieldY, math.Min(fieldY, r.poseY))
}

// Payload builds the wire-exact datagram body for this robot.
func (r *Robot) Payload(teamCount int) Payload {
	possessionPlayer := -1
	if r.hasPossession {
		possessionPlayer = r.id
	}
	return Payload{
		RobotID:   r.id,
		RobotName: r.name,
		TeamID:    r.teamID,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		Game: GamePayload{
			State:       gameStates[r.gameStateIdx],
			KickoffSide: r.id == 0,
			Score:       r.score,
		},
		Robot: BodyPayload{
			Pose: PosePayload{X: r.poseX, Y: r.poseY, Theta: r.poseTheta},
			Ball: BallPayload{Detected: r.ballDetected, X: r.ballX, Y: r.ballY, Range: r.ballRange},
		},
		Collaboration: CollaborationPayload{
			Role:             r.role,
			DynamicRole:      r.dynamicRole,
			HasPossession:    r.hasPossession,
			PossessionPlayer: possessionPlayer,
			BallCost:         r.ballCost,
		},
		Behavior: BehaviorPayload{
			Decision:          r.decision,
			BallLocationKnown: r.ballDetected,
		},
		Performance: PerformancePayload{
			AvgLoopTime: r.avgLoopTime,
			MaxLoopTime: r.maxLoopTime,
		},
		Head: HeadPayload{Pitch: r.headPitch, Yaw: r.headYaw},
		Recovery: RecoveryPayload{
			State:     0,
			Available: true,
		},
		TeamCount: teamCount,
	}
}
