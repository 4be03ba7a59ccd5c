package search

import (
	"time"
)

// TimeManager turns UCI go-command limits into soft/hard millisecond
// budgets for iterative deepening, and tracks score-drop / best-move
// stability across depths to stretch or shrink the soft limit adaptively.
// Grounded on original_source/hugine.cpp's TimeManager class; the
// moves-to-go fallback and overhead handling also echo the teacher's
// engine/time_management.go.
type TimeManager struct {
	start time.Time

	moveTimeMs     int64
	softLimitMs    int64
	hardLimitMs    int64
	infinite       bool
	pondering      bool
	moveOverheadMs int64

	prevScore              int32
	scoreDropCount         int
	bestMoveStabilityCount int
	gamePhase              int
}

// NewTimeManager returns a manager with the teacher's default 100ms move
// overhead reservation.
func NewTimeManager() *TimeManager {
	return &TimeManager{moveOverheadMs: 100}
}

func (tm *TimeManager) SetMoveOverhead(ms int64) { tm.moveOverheadMs = ms }
func (tm *TimeManager) SetGamePhase(phase int)   { tm.gamePhase = phase }

// Start computes soft/hard limits from the side to move's clock per Limits,
// and records the wall-clock start instant.
func (tm *TimeManager) Start(limits Limits, whiteToMove bool) {
	tm.start = time.Now()
	tm.infinite = limits.Infinite
	tm.pondering = limits.Ponder
	tm.prevScore = 0
	tm.scoreDropCount = 0
	tm.bestMoveStabilityCount = 0

	if limits.MoveTime > 0 {
		tm.moveTimeMs = limits.MoveTime
		tm.softLimitMs = limits.MoveTime
		tm.hardLimitMs = limits.MoveTime
		return
	}
	if tm.infinite || tm.pondering {
		tm.moveTimeMs = 0
		tm.softLimitMs = 1<<62
		tm.hardLimitMs = 1<<62
		return
	}

	timeLeft := limits.BlackTime
	inc := limits.BlackInc
	if whiteToMove {
		timeLeft = limits.WhiteTime
		inc = limits.WhiteInc
	}
	movesToGo := limits.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 40
	}
	divisor := movesToGo
	if divisor < 5 {
		divisor = 5
	}
	base := timeLeft/int64(divisor) + inc/2
	tm.softLimitMs = base
	half := timeLeft / 2
	capped := base * 5
	if half < capped {
		tm.hardLimitMs = half
	} else {
		tm.hardLimitMs = capped
	}
}

// PonderHit ends the pondering phase: it recomputes soft/hard limits from
// limits as an ordinary timed search (ignoring limits.Ponder) and resets
// the wall-clock start to now, matching the UCI "ponderhit" transition —
// the clock only starts counting down once pondering turns into a real
// search.
func (tm *TimeManager) PonderHit(limits Limits, whiteToMove bool) {
	limits.Ponder = false
	tm.Start(limits, whiteToMove)
}

// Scale multiplies both limits by factor, clamped to [0.2, 1.5] — used when
// the root position is unusually sharp or unusually quiet.
func (tm *TimeManager) Scale(factor float64) {
	if factor < 0.2 {
		factor = 0.2
	}
	if factor > 1.5 {
		factor = 1.5
	}
	tm.softLimitMs = int64(float64(tm.softLimitMs) * factor)
	tm.hardLimitMs = int64(float64(tm.hardLimitMs) * factor)
}

// Update feeds the latest completed depth's score and whether the best move
// changed, adjusting the stability counters time-for-depth reads.
func (tm *TimeManager) Update(score int32, bestMoveChanged bool) {
	if score < tm.prevScore-50 {
		tm.scoreDropCount++
	} else if tm.scoreDropCount > 0 {
		tm.scoreDropCount--
	}
	if bestMoveChanged {
		tm.bestMoveStabilityCount = 0
	} else {
		tm.bestMoveStabilityCount++
	}
	tm.prevScore = score
}

func (tm *TimeManager) elapsed() time.Duration { return time.Since(tm.start) }

// TimeForDepth reports whether iterative deepening should start another
// depth, stretching the soft limit when the position looks unsettled
// (recent score drops, an unstable best move) or the game phase is near
// the middlegame.
func (tm *TimeManager) TimeForDepth() bool {
	if tm.infinite || tm.pondering {
		return true
	}
	factor := 1.0
	if tm.bestMoveStabilityCount < 3 {
		factor *= 1.5
	}
	if tm.scoreDropCount > 2 {
		factor *= 1.3
	}
	phaseDist := tm.gamePhase - 12
	if phaseDist < 0 {
		phaseDist = -phaseDist
	}
	factor *= 1.0 + 0.5*(1.0-float64(phaseDist)/12.0)

	return tm.elapsed().Milliseconds() < int64(float64(tm.softLimitMs)*factor)
}

// StopEarly reports whether the hard limit (or fixed move time) has been
// reached and the current depth's search must abort immediately.
func (tm *TimeManager) StopEarly() bool {
	if tm.infinite || tm.pondering {
		return false
	}
	e := tm.elapsed().Milliseconds()
	if tm.moveTimeMs > 0 {
		return e+tm.moveOverheadMs >= tm.moveTimeMs
	}
	return e+tm.moveOverheadMs >= tm.hardLimitMs
}

// Elapsed exposes the wall-clock time spent so far, for UCI info output.
func (tm *TimeManager) Elapsed() time.Duration { return tm.elapsed() }
