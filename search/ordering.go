package search

import "corvidchess/board"

// Score bands keep move classes from ever comparing across categories: a TT
// move always outranks every capture, a winning capture always outranks
// every quiet move, and so on. Mirrors the priority ladder in
// engine/moveordering.go's scoring scheme.
const (
	scoreTT          int32 = 30_000_000
	scoreWinningCap  int32 = 20_000_000
	scoreKiller1     int32 = 15_000_002
	scoreKiller2     int32 = 15_000_001
	scoreCounterMove int32 = 15_000_000
	scoreQuiet       int32 = 0 // + history-derived offset
	scoreLosingCap   int32 = -20_000_000
)

// ScoredMove pairs a move with its ordering score.
type ScoredMove struct {
	Move  board.Move
	Score int32
}

// ScoreMoves assigns every move in moves an ordering score. prev is the
// move played one ply back (for counter-move and continuation history),
// prevPrev two plies back (for follow-up-move).
func ScoreMoves(pos *board.Position, moves []board.Move, ttMove board.Move, ply int, prev, prevPrev board.Move, h *History) []ScoredMove {
	us := pos.SideToMove()
	scored := make([]ScoredMove, len(moves))
	killers := h.Killers(ply)
	counter := h.CounterMove(prev)
	followUp := h.FollowUpMove(prevPrev)

	prevInfo := prevMove{piece: board.NoPiece, to: board.NoSquare}
	if !prev.IsNone() && !prev.IsNull() {
		prevInfo = prevMove{piece: pos.PieceAt(prev.To()), to: prev.To()}
	}

	for i, m := range moves {
		var s int32
		switch {
		case m == ttMove:
			s = scoreTT
		case isCapture(pos, m):
			moved := pos.PieceAt(m.From())
			captured := capturedType(pos, m)
			see := SEE(pos, m)
			if see >= 0 {
				s = scoreWinningCap + PieceValue[captured]*16 - PieceValue[moved.Type()] + h.CaptureScore(moved, captured, m.To())
			} else {
				s = scoreLosingCap + see
			}
		case m == killers[0]:
			s = scoreKiller1
		case m == killers[1]:
			s = scoreKiller2
		case m == counter:
			s = scoreCounterMove
		case m == followUp:
			s = scoreCounterMove - 1
		default:
			moved := pos.PieceAt(m.From())
			s = scoreQuiet + h.QuietScore(us, m) + h.ButterflyScore(moved, m.To()) + h.ContinuationScore(prevInfo, moved, m.To())
		}
		scored[i] = ScoredMove{Move: m, Score: s}
	}
	return scored
}

// PickBest selection-sorts scored[start:] one step: it swaps the
// highest-scoring remaining move into position start and returns it. Search
// calls this once per move loop iteration instead of sorting up front, so
// that a beta cutoff mid-list skips the cost of ordering moves never
// examined.
func PickBest(scored []ScoredMove, start int) board.Move {
	best := start
	for i := start + 1; i < len(scored); i++ {
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	scored[start], scored[best] = scored[best], scored[start]
	return scored[start].Move
}

func isCapture(pos *board.Position, m board.Move) bool {
	if m.Flag() == board.FlagEnPassant {
		return true
	}
	return !pos.PieceAt(m.To()).IsEmpty()
}

func capturedType(pos *board.Position, m board.Move) board.PieceType {
	if m.Flag() == board.FlagEnPassant {
		return board.Pawn
	}
	return pos.PieceAt(m.To()).Type()
}
