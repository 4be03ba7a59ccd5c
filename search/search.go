package search

import (
	"sync/atomic"

	"corvidchess/board"
)

// Pruning/reduction constants, carried from the teacher's tuned values
// (engine/search.go's margin tables and engine/searchutil.go's LMR
// parameters) since they are a better-grounded starting point than
// invented constants.
var (
	futilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
	rfpMargins      = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
	razoringMargins = [4]int32{0, 125, 225, 325}
	lmpMargins      = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

	lmrDepthLimit  = 2
	nullMoveMinDepth = 2
	iidDepth         = 4
	singularDepth    = 8
	probCutDepth     = 5
	multiCutDepth    = 6
	probCutMargin    = int32(100)
)

const nodeCheckInterval = 2048

// lmrTable[depth][moveIndex] is precomputed at package init, mirroring
// engine/init.go's InitLMRTable.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			// logarithmic-shaped reduction table, clamped below, mirroring
			// the teacher's InitLMRTable clamp against depth-2.
			r := int(logReduction(d, m))
			if r > d-2 {
				r = d - 2
			}
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = r
		}
	}
}

// logReduction approximates the standard log(d)*log(m)/2 LMR curve.
func logReduction(d, m int) float64 {
	ld := ilog(d)
	lm := ilog(m)
	return 0.5 + ld*lm/2.2
}

func ilog(v int) float64 {
	x := float64(v)
	n := 0.0
	for x >= 2 {
		x /= 2
		n++
	}
	return n
}

// Searcher is the per-goroutine search worker: its own position clone,
// history tables, node counter and per-ply stacks. Never shared between
// coordinator workers; only the transposition table, evaluator and oracles
// underneath it are shared.
type Searcher struct {
	tt        *Table
	eval      Evaluator
	book      BookProbe
	tb        TablebaseProbe
	learn     LearningStore
	history   *History
	stop      *int32 // shared atomic stop flag
	nodes     uint64
	selDepth  int
	played    [MaxPly]board.Move
	staticEv  [MaxPly]int32
	pvTable   [MaxPly][MaxPly]board.Move
	pvLength  [MaxPly]int
	rootDepth int

	// excludedRoot lists root moves already claimed by an earlier, higher
	// MultiPV slot this depth; Run repopulates it before each slot's search.
	excludedRoot []board.Move

	// rootMoves restricts the root to this set when non-empty — how the
	// coordinator hands each Lazy-SMP worker its partition of the root move
	// list (Limits.SearchMove); empty means unrestricted.
	rootMoves []board.Move
}

// BookProbe, TablebaseProbe and LearningStore are the oracle seams §4.9
// describes; concrete implementations live in the book/tablebase/learn
// packages. Defined here (rather than imported) to avoid a dependency
// cycle, satisfied structurally by those packages' types.
type BookProbe interface {
	Probe(pos *board.Position) board.Move
}

type TablebaseProbe interface {
	ProbeWDL(pos *board.Position) (wdl int, ok bool)
	CanProbe(pos *board.Position) bool
}

type LearningStore interface {
	Adjustment(hash uint64) int32
}

func NewSearcher(tt *Table, eval Evaluator, book BookProbe, tb TablebaseProbe, learn LearningStore, stop *int32) *Searcher {
	return &Searcher{tt: tt, eval: eval, book: book, tb: tb, learn: learn, history: NewHistory(), stop: stop}
}

func (s *Searcher) shouldStop() bool {
	if s.nodes%nodeCheckInterval == 0 && atomic.LoadInt32(s.stop) != 0 {
		return true
	}
	return false
}

func (s *Searcher) evaluate(pos *board.Position) int32 {
	v := s.eval.Evaluate(pos)
	if s.learn != nil {
		v += s.learn.Adjustment(pos.Hash())
	}
	return v
}

// Search runs the negamax entry sequence at a single node and returns the
// score from the side-to-move's perspective. excluded is the move to skip
// during a singular-extension verification search (NoMove otherwise).
func (s *Searcher) Search(pos *board.Position, alpha, beta int32, depth, ply int, cutNode bool, excluded board.Move) int32 {
	s.pvLength[ply] = ply
	pvNode := beta-alpha > 1

	s.nodes++
	if s.shouldStop() {
		return 0
	}
	if ply > s.selDepth {
		s.selDepth = ply
	}

	// 2. Draw detection.
	if ply > 0 {
		if pos.IsDrawByFiftyMoveRule() || pos.IsRepetition(2) {
			return Draw
		}
	}

	// 4. Mate-distance pruning.
	matedScore := MateScore(ply)
	if matedScore > alpha {
		alpha = matedScore
	}
	mateScore := -MateScore(ply) - 1
	if mateScore < beta {
		beta = mateScore
	}
	if alpha >= beta {
		return alpha
	}

	// 3. Tablebase leaf probe.
	if s.tb != nil && s.tb.CanProbe(pos) {
		if wdl, ok := s.tb.ProbeWDL(pos); ok {
			return tbScore(wdl, ply)
		}
	}

	inCheck := pos.InCheck(pos.SideToMove())

	// 6. Quiescence tail call.
	if depth <= 0 && !inCheck {
		return s.quiescence(pos, alpha, beta, ply, 0)
	}
	if depth < 0 {
		depth = 0
	}

	// 5. TT probe.
	var ttMove board.Move = board.NoMove
	if hit, score, move, usable := s.tt.Probe(pos.Hash(), depth, ply, alpha, beta); hit {
		ttMove = move
		if usable && ply > 0 && !pvNode {
			return score
		}
	}

	// 7. Static eval.
	staticEval := s.evaluate(pos)
	if inCheck {
		staticEval = -Mate + int32(ply)
	}
	s.staticEv[ply] = staticEval
	improving := ply >= 2 && !inCheck && staticEval > s.staticEv[ply-2]

	if !pvNode && !inCheck && excluded.IsNone() {
		// 11. Razoring.
		if depth <= 3 && staticEval+razoringMargins[depth] < alpha {
			score := s.quiescence(pos, alpha, beta, ply, 0)
			if score <= alpha {
				return score
			}
		}

		// 12. Static-null / reverse futility.
		if depth <= 7 && staticEval-rfpMargins[depth] >= beta && staticEval < Mate-1000 {
			return staticEval
		}

		// 10. Null-move pruning.
		if depth >= nullMoveMinDepth && staticEval >= beta && hasNonPawnMaterial(pos) {
			r := 3 + depth/6
			undo := pos.MakeNullMove()
			s.played[ply] = board.NullMove
			score := -s.Search(pos, -beta, -beta+1, depth-1-r, ply+1, !cutNode, board.NoMove)
			pos.UnmakeNullMove(undo)
			if score >= beta && score < Mate-1000 {
				return beta
			}
		}

		// 9. ProbCut.
		if depth >= probCutDepth && !IsMateScore(beta) {
			probCutBeta := beta + probCutMargin
			var buf [MaxMoves]board.Move
			caps := pos.GenerateMoves(buf[:0], true)
			for _, m := range caps {
				if SEE(pos, m) < probCutBeta-staticEval {
					continue
				}
				undo := pos.MakeMove(m)
				if pos.MoverInCheck() {
					pos.UnmakeMove(m, undo)
					continue
				}
				score := -s.Search(pos, -probCutBeta, -probCutBeta+1, depth-4, ply+1, !cutNode, board.NoMove)
				pos.UnmakeMove(m, undo)
				if score >= probCutBeta {
					return score
				}
			}
		}
	}

	// 8. Singular extension test.
	singularMove := board.NoMove
	extendSingular := false
	if ply > 0 && depth >= singularDepth && !ttMove.IsNone() && excluded.IsNone() {
		if hit, ttScore, move, _ := s.tt.Probe(pos.Hash(), depth-3, ply, alpha, beta); hit && move == ttMove && !IsMateScore(ttScore) {
			singularBeta := ttScore - int32(depth)*2
			score := s.Search(pos, singularBeta-1, singularBeta, (depth-1)/2, ply, cutNode, ttMove)
			if score < singularBeta {
				extendSingular = true
				singularMove = ttMove
			}
		}
	}
	_ = singularMove

	// Internal iterative deepening: populate a TT move when none is known.
	if ttMove.IsNone() && depth >= iidDepth && excluded.IsNone() {
		s.Search(pos, alpha, beta, depth-2, ply, cutNode, board.NoMove)
		if _, _, move, _ := s.ttLookup(pos); !move.IsNone() {
			ttMove = move
		}
	}

	var buf [MaxMoves]board.Move
	moves := pos.GenerateMoves(buf[:0], false)
	prev, prevPrev := board.NoMove, board.NoMove
	if ply > 0 {
		prev = s.played[ply-1]
	}
	if ply > 1 {
		prevPrev = s.played[ply-2]
	}
	scored := ScoreMoves(pos, moves, ttMove, ply, prev, prevPrev, s.history)

	bestScore := -MaxScore
	bestMove := board.NoMove
	legalCount := 0
	quietsSearched := make([]board.Move, 0, len(moves))
	capsSearched := make([]board.Move, 0, len(moves))
	origAlpha := alpha

	cutsSeen := 0
	for i := range scored {
		m := PickBest(scored, i)
		if m == excluded {
			continue
		}
		if ply == 0 && rootMoveExcluded(s.excludedRoot, m) {
			continue
		}
		if ply == 0 && len(s.rootMoves) > 0 && !rootMoveExcluded(s.rootMoves, m) {
			continue // coordinator restricted this worker to a partition of the root move list
		}
		if pos.PieceAt(m.To()).Type() == board.King {
			continue // defensive: king capture is never a legal target.
		}
		quiet := !isCapture(pos, m) && m.Flag() != board.FlagPromotion

		// Multi-cut: cheap confirmation that this node will fail high.
		if cutNode && depth >= multiCutDepth && !ttMove.IsNone() && i >= 1 && i <= 3 {
			undo := pos.MakeMove(m)
			if !pos.MoverInCheck() {
				score := -s.Search(pos, -beta, -beta+1, depth-3, ply+1, false, board.NoMove)
				if score >= beta {
					cutsSeen++
				}
			}
			pos.UnmakeMove(m, undo)
			if cutsSeen >= 2 {
				return beta
			}
		}

		if quiet && !inCheck && ply > 0 && legalCount > 0 {
			if depth <= 7 && staticEval+futilityMargins[depth] <= alpha {
				continue
			}
			if !improving && legalCount >= lmpMargins[min(depth, 8)] {
				continue
			}
		}

		undo := pos.MakeMove(m)
		if pos.MoverInCheck() {
			pos.UnmakeMove(m, undo)
			continue
		}
		legalCount++
		s.played[ply] = m

		newDepth := depth - 1
		givesCheck := pos.InCheck(pos.SideToMove())
		if inCheck {
			newDepth++
		}
		if givesCheck {
			newDepth++
		}
		if extendSingular && m == ttMove {
			newDepth++
		}
		if newDepth > depth+2 {
			newDepth = depth + 2
		}

		var score int32
		if legalCount == 1 {
			score = -s.Search(pos, -beta, -alpha, newDepth, ply+1, false, board.NoMove)
		} else {
			r := 0
			if quiet && depth >= lmrDepthLimit && legalCount > 2 && !pvNode {
				r = lmrReduction(depth, legalCount)
				if !improving {
					r++
				}
				hScore := s.history.QuietScore(pos.SideToMove().Opponent(), m)
				if hScore < 0 {
					r++
				} else if hScore > HistoryMax/2 {
					r--
				}
				if r < 0 {
					r = 0
				}
				if r > newDepth-1 {
					r = newDepth - 1
				}
			}
			score = -s.Search(pos, -alpha-1, -alpha, newDepth-r, ply+1, true, board.NoMove)
			if score > alpha && r > 0 {
				score = -s.Search(pos, -alpha-1, -alpha, newDepth, ply+1, true, board.NoMove)
			}
			if score > alpha && score < beta {
				score = -s.Search(pos, -beta, -alpha, newDepth, ply+1, false, board.NoMove)
			}
		}
		pos.UnmakeMove(m, undo)

		if quiet {
			quietsSearched = append(quietsSearched, m)
		} else {
			capsSearched = append(capsSearched, m)
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
			}
		}
		if alpha >= beta {
			s.onBetaCutoff(pos, m, prev, prevPrev, depth, ply, quiet, quietsSearched, capsSearched)
			break
		}
	}

	if legalCount == 0 {
		if !excluded.IsNone() || (ply == 0 && (len(s.excludedRoot) > 0 || len(s.rootMoves) > 0)) {
			return alpha // singular-verification, a MultiPV slot with no root move left to claim, or an empty root partition
		}
		if inCheck {
			return MateScore(ply)
		}
		return Draw
	}

	bound := BoundExact
	if bestScore <= origAlpha {
		bound = BoundUpper
	} else if bestScore >= beta {
		bound = BoundLower
	}
	if excluded.IsNone() {
		s.tt.Store(pos.Hash(), depth, ply, bestScore, bound, bestMove)
	}
	return bestScore
}

func (s *Searcher) ttLookup(pos *board.Position) (bool, int32, board.Move, bool) {
	return s.tt.Probe(pos.Hash(), 0, 0, -MaxScore, MaxScore)
}

func (s *Searcher) updatePV(ply int, m board.Move) {
	s.pvTable[ply][ply] = m
	for next := ply + 1; next < s.pvLength[ply+1]; next++ {
		s.pvTable[ply][next] = s.pvTable[ply+1][next]
	}
	s.pvLength[ply] = s.pvLength[ply+1]
	if s.pvLength[ply] <= ply {
		s.pvLength[ply] = ply + 1
	}
}

// PV returns the principal variation found at the root of the last Search call.
func (s *Searcher) PV() []board.Move {
	n := s.pvLength[0]
	pv := make([]board.Move, 0, n)
	for i := 0; i < n; i++ {
		pv = append(pv, s.pvTable[0][i])
	}
	return pv
}

func (s *Searcher) onBetaCutoff(pos *board.Position, cutting board.Move, prev, prevPrev board.Move, depth, ply int, quiet bool, quiets, caps []board.Move) {
	us := pos.SideToMove()
	bonus := int32(depth * depth)
	prevInfo := prevMove{piece: board.NoPiece, to: board.NoSquare}
	if !prev.IsNone() && !prev.IsNull() {
		prevInfo = prevMove{piece: pos.PieceAt(prev.To()), to: prev.To()}
	}

	if quiet {
		s.history.AddKiller(ply, cutting)
		s.history.SetCounterMove(prev, cutting)
		s.history.SetFollowUpMove(prevPrev, cutting)
		moved := pos.PieceAt(cutting.From())
		s.history.UpdateQuiet(us, cutting, bonus)
		s.history.UpdateButterfly(moved, cutting.To(), bonus)
		s.history.UpdateContinuation(prevInfo, moved, cutting.To(), bonus)
		for _, m := range quiets {
			if m == cutting {
				continue
			}
			mv := pos.PieceAt(m.From())
			s.history.UpdateQuiet(us, m, -bonus)
			s.history.UpdateButterfly(mv, m.To(), -bonus)
			s.history.UpdateContinuation(prevInfo, mv, m.To(), -bonus)
		}
	} else {
		moved := pos.PieceAt(cutting.From())
		s.history.UpdateCapture(moved, capturedType(pos, cutting), cutting.To(), bonus)
	}
	for _, m := range caps {
		if m == cutting {
			continue
		}
		mv := pos.PieceAt(m.From())
		s.history.UpdateCapture(mv, capturedType(pos, m), m.To(), -bonus)
	}
}

func lmrReduction(depth, moveIndex int) int {
	d, m := depth, moveIndex
	if d >= len(lmrTable) {
		d = len(lmrTable) - 1
	}
	if m >= len(lmrTable[0]) {
		m = len(lmrTable[0]) - 1
	}
	return lmrTable[d][m]
}

func rootMoveExcluded(excluded []board.Move, m board.Move) bool {
	for _, e := range excluded {
		if e == m {
			return true
		}
	}
	return false
}

func hasNonPawnMaterial(pos *board.Position) bool {
	us := pos.SideToMove()
	return pos.Pieces(us, board.Knight)|pos.Pieces(us, board.Bishop)|
		pos.Pieces(us, board.Rook)|pos.Pieces(us, board.Queen) != 0
}

func tbScore(wdl int, ply int) int32 {
	switch {
	case wdl > 1:
		return Mate - int32(ply) - 1
	case wdl < -1:
		return -Mate + int32(ply) + 1
	case wdl == 1:
		return 1
	case wdl == -1:
		return -1
	default:
		return Draw
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
