package search

import "corvidchess/board"

// HistoryMax bounds every saturating history counter in [-HistoryMax, +HistoryMax].
const HistoryMax int32 = 16384

// saturate applies the bounded update all history tables share:
// v += delta - v*|delta|/MAX, which pulls v toward its bound geometrically
// rather than letting it grow unbounded or requiring a periodic halving pass.
func saturate(v int32, delta int32) int32 {
	if delta < 0 {
		return v + delta - v*(-delta)/HistoryMax
	}
	return v + delta - v*delta/HistoryMax
}

func piece12(pc board.Piece) int {
	idx := int(pc.Type()) - 1 // Pawn==1 -> 0 .. King==6 -> 5
	if pc.Color() == board.Black {
		idx += 6
	}
	return idx
}

// History is per-searcher move-ordering state: every table listed in the
// data model (quiet history, butterfly, capture history, continuation,
// counter-move, follow-up-move) plus per-ply killers. Never shared across
// searcher goroutines — each coordinator worker owns one.
type History struct {
	quiet        [2][64][64]int32
	butterfly    [12][64]int32
	capture      [12][7][64]int32
	continuation [12][64][12][64]int32
	counterMove  [64][64]board.Move
	followUpMove [64][64]board.Move
	killers      [MaxPly][2]board.Move
}

func NewHistory() *History { return &History{} }

// prevMove packages the previous ply's (piece, to-square) for continuation
// history lookups; NoMove/NoPiece are valid "nothing to continue from" values.
type prevMove struct {
	piece board.Piece
	to    board.Square
}

func (h *History) QuietScore(us board.Color, m board.Move) int32 {
	return h.quiet[us][m.From()][m.To()]
}

func (h *History) UpdateQuiet(us board.Color, m board.Move, delta int32) {
	from, to := m.From(), m.To()
	h.quiet[us][from][to] = saturate(h.quiet[us][from][to], delta)
}

func (h *History) ButterflyScore(moved board.Piece, to board.Square) int32 {
	return h.butterfly[piece12(moved)][to]
}

func (h *History) UpdateButterfly(moved board.Piece, to board.Square, delta int32) {
	i, t := piece12(moved), to
	h.butterfly[i][t] = saturate(h.butterfly[i][t], delta)
}

func (h *History) CaptureScore(moved board.Piece, captured board.PieceType, to board.Square) int32 {
	return h.capture[piece12(moved)][captured][to]
}

func (h *History) UpdateCapture(moved board.Piece, captured board.PieceType, to board.Square, delta int32) {
	i := piece12(moved)
	h.capture[i][captured][to] = saturate(h.capture[i][captured][to], delta)
}

func (h *History) ContinuationScore(prev prevMove, moved board.Piece, to board.Square) int32 {
	if prev.piece == board.NoPiece {
		return 0
	}
	return h.continuation[piece12(prev.piece)][prev.to][piece12(moved)][to]
}

func (h *History) UpdateContinuation(prev prevMove, moved board.Piece, to board.Square, delta int32) {
	if prev.piece == board.NoPiece {
		return
	}
	pi, pt := piece12(prev.piece), prev.to
	ci, ct := piece12(moved), to
	h.continuation[pi][pt][ci][ct] = saturate(h.continuation[pi][pt][ci][ct], delta)
}

func (h *History) CounterMove(prev board.Move) board.Move {
	if prev.IsNone() || prev.IsNull() {
		return board.NoMove
	}
	return h.counterMove[prev.From()][prev.To()]
}

func (h *History) SetCounterMove(prev, m board.Move) {
	if prev.IsNone() || prev.IsNull() {
		return
	}
	h.counterMove[prev.From()][prev.To()] = m
}

func (h *History) FollowUpMove(twoAgo board.Move) board.Move {
	if twoAgo.IsNone() || twoAgo.IsNull() {
		return board.NoMove
	}
	return h.followUpMove[twoAgo.From()][twoAgo.To()]
}

func (h *History) SetFollowUpMove(twoAgo, m board.Move) {
	if twoAgo.IsNone() || twoAgo.IsNull() {
		return
	}
	h.followUpMove[twoAgo.From()][twoAgo.To()] = m
}

// Killers returns ply's two killer-move slots.
func (h *History) Killers(ply int) [2]board.Move { return h.killers[ply] }

// AddKiller shifts m into slot 0 of ply, pushing the previous slot-0 down to
// slot 1 (a two-entry LRU), unless m is already the current best killer.
func (h *History) AddKiller(ply int, m board.Move) {
	if h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

// ClearPly clears the two killer slots stored for ply.
func (h *History) ClearPly(ply int) { h.killers[ply] = [2]board.Move{} }
