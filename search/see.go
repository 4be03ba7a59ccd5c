package search

import "corvidchess/board"

// PieceValue is the material table SEE and delta pruning use — centipawn,
// king included so a king "capture" (never actually generated, but SEE must
// still rank it if ever asked) reads as an enormous gain rather than zero.
var PieceValue = [7]int32{
	board.NoPieceType: 0,
	board.Pawn:        100,
	board.Knight:      300,
	board.Bishop:      300,
	board.Rook:        500,
	board.Queen:       900,
	board.King:        20000,
}

// SEE computes the static exchange evaluation of m: the net material
// outcome if both sides continue capturing on m's destination square with
// their cheapest available attacker, each side stopping the moment
// continuing would lose material (the minimax rollback). Attackers are
// recomputed from the updated occupancy at each step via
// board.Position.AttackersTo, which is what makes X-ray attackers (a rook
// behind a just-"captured" rook, for instance) appear correctly.
func SEE(pos *board.Position, m board.Move) int32 {
	from, to := m.From(), m.To()
	occ := pos.AllOccupied()

	var target board.PieceType
	if m.Flag() == board.FlagEnPassant {
		target = board.Pawn
	} else {
		target = pos.PieceAt(to).Type()
	}

	var gain [32]int32
	depth := 0
	gain[0] = PieceValue[target]

	attacker := pos.PieceAt(from)
	side := attacker.Color().Opponent()
	occ &^= board.SquareMaskFor(from)
	if m.Flag() == board.FlagEnPassant {
		capSq := board.MakeSquare(to.File(), from.Rank())
		occ &^= board.SquareMaskFor(capSq)
	}

	for {
		attackers := pos.AttackersTo(to, occ) & pos.Occupied(side)
		if attackers == 0 {
			break
		}
		nextSq, nextPiece, ok := cheapestAttacker(pos, attackers)
		if !ok {
			break
		}
		depth++
		gain[depth] = PieceValue[attacker.Type()] - gain[depth-1]
		if max32(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		occ &^= board.SquareMaskFor(nextSq)
		attacker = nextPiece
		side = side.Opponent()
	}

	for depth > 0 {
		gain[depth-1] = -max32(-gain[depth-1], gain[depth])
		depth--
	}
	return gain[0]
}

// cheapestAttacker picks the least valuable piece among attackers.
func cheapestAttacker(pos *board.Position, attackers board.Bitboard) (board.Square, board.Piece, bool) {
	best := board.NoSquare
	var bestPiece board.Piece
	bestValue := int32(1 << 30)
	for bb := attackers; bb != 0; {
		sq := bb.PopLSB()
		pc := pos.PieceAt(sq)
		if v := PieceValue[pc.Type()]; v < bestValue {
			bestValue = v
			best = sq
			bestPiece = pc
		}
	}
	if best == board.NoSquare {
		return board.NoSquare, board.NoPiece, false
	}
	return best, bestPiece, true
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
