package search

import (
	"time"

	"github.com/wrenfield/corvid/internal/board"
)

// Limits contains UCI time control parameters for one search.
type Limits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each player)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Infinite  bool             // search until stopped
}

// TimeManager allocates a thinking budget for one search and tracks whether
// that budget has been spent.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init initializes the time manager for a new search. ply is the current
// game ply (half-move number), used to estimate moves remaining.
func (tm *TimeManager) Init(limits Limits, us board.Player, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft / time.Duration(mtg)
	baseTime += inc * 9 / 10

	tm.optimumTime = baseTime
	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10

	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft * 95 / 100
	if tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the maximum time allowed.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop returns true if the maximum time has been exceeded.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum returns true if the optimum time has been exceeded.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shrinks the optimum budget when the best move has held
// steady across consecutive iterative-deepening depths.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability grows the optimum budget, capped at the maximum, when
// the best move keeps changing between depths.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
