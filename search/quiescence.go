package search

import "corvidchess/board"

// quiescenceMaxDepth hard-caps the capture-chain extension below the main
// search leaves, per §4.5.
const quiescenceMaxDepth = 8

// quiescence extends search through captures and check evasions so the
// evaluator is never sampled inside an unresolved tactical sequence.
func (s *Searcher) quiescence(pos *board.Position, alpha, beta int32, ply, qdepth int) int32 {
	s.nodes++
	if s.shouldStop() {
		return 0
	}
	if ply >= MaxPly {
		return s.evaluate(pos)
	}

	inCheck := pos.InCheck(pos.SideToMove())

	if !inCheck {
		standPat := s.evaluate(pos)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		if qdepth >= quiescenceMaxDepth {
			return alpha
		}

		var buf [MaxMoves]board.Move
		moves := pos.GenerateMoves(buf[:0], true)
		scored := ScoreMoves(pos, moves, board.NoMove, 0, board.NoMove, board.NoMove, s.history)

		for i := range scored {
			m := PickBest(scored, i)
			see := SEE(pos, m)
			if see < 0 {
				continue
			}
			// Delta pruning: skip the capture when stand-pat plus its SEE
			// gain plus a safety margin still can't raise alpha.
			if standPat+see+deltaMargin <= alpha {
				continue
			}

			undo := pos.MakeMove(m)
			if pos.MoverInCheck() {
				pos.UnmakeMove(m, undo)
				continue
			}
			score := -s.quiescence(pos, -beta, -alpha, ply+1, qdepth+1)
			pos.UnmakeMove(m, undo)

			if score >= beta {
				return beta
			}
			if score > alpha {
				alpha = score
			}
		}
		return alpha
	}

	// In check: no stand-pat, search every evasion.
	var buf [MaxMoves]board.Move
	moves := pos.GenerateMoves(buf[:0], false)
	scored := ScoreMoves(pos, moves, board.NoMove, 0, board.NoMove, board.NoMove, s.history)

	legal := 0
	for i := range scored {
		m := PickBest(scored, i)
		undo := pos.MakeMove(m)
		if pos.MoverInCheck() {
			pos.UnmakeMove(m, undo)
			continue
		}
		legal++
		score := -s.quiescence(pos, -beta, -alpha, ply+1, qdepth+1)
		pos.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	if legal == 0 {
		return MateScore(ply)
	}
	return alpha
}

const deltaMargin int32 = 200
