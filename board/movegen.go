package board

// GenerateMoves appends every pseudo-legal move for the side to move into
// buf and returns the extended slice. Pseudo-legal here means board-geometry
// legal — castling additionally enforces the king's start/transit/landing
// squares are unattacked — but a move that leaves the mover's own king in
// check is NOT filtered here. Callers must MakeMove then check
// MoverInCheck, unmaking rejected moves; see Position.MoverInCheck.
//
// When capturesOnly is set, only captures, en-passant captures and
// promotions (all of them, not just queen) are produced — the set
// quiescence search scans.
func (p *Position) GenerateMoves(buf []Move, capturesOnly bool) []Move {
	us := p.sideToMove
	them := us.Opponent()
	occUs := p.occupancy[us]
	occThem := p.occupancy[them]
	occAll := occUs | occThem

	buf = p.generatePawnMoves(buf, us, occUs, occThem, occAll, capturesOnly)
	buf = p.generatePieceMoves(buf, Knight, us, occUs, occThem, occAll, capturesOnly)
	buf = p.generatePieceMoves(buf, Bishop, us, occUs, occThem, occAll, capturesOnly)
	buf = p.generatePieceMoves(buf, Rook, us, occUs, occThem, occAll, capturesOnly)
	buf = p.generatePieceMoves(buf, Queen, us, occUs, occThem, occAll, capturesOnly)
	buf = p.generateKingMoves(buf, us, occUs, occThem, capturesOnly)
	if !capturesOnly {
		buf = p.generateCastles(buf, us, occAll)
	}
	return buf
}

func targetsFromAttack(attack Bitboard, occUs Bitboard) Bitboard { return attack &^ occUs }

func (p *Position) generatePieceMoves(buf []Move, pt PieceType, us Color, occUs, occThem, occAll Bitboard, capturesOnly bool) []Move {
	pieces := p.bitboards[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		var attack Bitboard
		switch pt {
		case Knight:
			attack = knightAttacks[from]
		case Bishop:
			attack = bishopAttacks(from, occAll)
		case Rook:
			attack = rookAttacks(from, occAll)
		case Queen:
			attack = queenAttacks(from, occAll)
		}
		targets := targetsFromAttack(attack, occUs)
		if capturesOnly {
			targets &= occThem
		}
		for targets != 0 {
			to := targets.PopLSB()
			buf = append(buf, NewMove(from, to, FlagNone, NoPieceType))
		}
	}
	return buf
}

func (p *Position) generateKingMoves(buf []Move, us Color, occUs, occThem Bitboard, capturesOnly bool) []Move {
	from := p.KingSquare(us)
	if from == NoSquare {
		return buf
	}
	targets := targetsFromAttack(kingAttacks[from], occUs)
	if capturesOnly {
		targets &= occThem
	}
	for targets != 0 {
		to := targets.PopLSB()
		buf = append(buf, NewMove(from, to, FlagNone, NoPieceType))
	}
	return buf
}

var promotionKinds = [4]PieceType{Queen, Rook, Bishop, Knight}

func (p *Position) generatePawnMoves(buf []Move, us Color, occUs, occThem, occAll Bitboard, capturesOnly bool) []Move {
	pawns := p.bitboards[us][Pawn]
	forward := 8
	startRank, promoRank := 1, 7
	if us == Black {
		forward = -8
		startRank, promoRank = 6, 0
	}

	for bb := pawns; bb != 0; {
		from := bb.PopLSB()
		to := Square(int(from) + forward)

		if to >= 0 && to < 64 && occAll&squareMask(to) == 0 {
			if to.Rank() == promoRank {
				buf = appendPromotions(buf, from, to)
			} else if !capturesOnly {
				buf = append(buf, NewMove(from, to, FlagNone, NoPieceType))
				if from.Rank() == startRank {
					dbl := Square(int(from) + 2*forward)
					if occAll&squareMask(dbl) == 0 {
						buf = append(buf, NewMove(from, dbl, FlagNone, NoPieceType))
					}
				}
			}
		}

		caps := pawnAttacks[us][from] & occThem
		for caps != 0 {
			capTo := caps.PopLSB()
			if capTo.Rank() == promoRank {
				buf = appendPromotions(buf, from, capTo)
			} else {
				buf = append(buf, NewMove(from, capTo, FlagNone, NoPieceType))
			}
		}

		if p.epSquare != NoSquare && pawnAttacks[us][from]&squareMask(p.epSquare) != 0 {
			buf = append(buf, NewMove(from, p.epSquare, FlagEnPassant, NoPieceType))
		}
	}
	return buf
}

func appendPromotions(buf []Move, from, to Square) []Move {
	for _, kind := range promotionKinds {
		buf = append(buf, NewMove(from, to, FlagPromotion, kind))
	}
	return buf
}

// generateCastles emits castling moves encoded king-origin to king-destination
// (per Move.String's convention); Flag is FlagCastle so make/unmake and UCI
// rendering can recover the rook's origin from the position's CastlingRights
// rather than from the move bits themselves — required for Chess960, where
// the king's destination square may coincide with the rook's origin square.
func (p *Position) generateCastles(buf []Move, us Color, occAll Bitboard) []Move {
	from := p.KingSquare(us)
	if from == NoSquare || p.InCheck(us) {
		return buf
	}
	them := us.Opponent()

	for _, kingside := range [2]bool{true, false} {
		rookSq := p.castling.slot(us, kingside)
		if rookSq == NoSquare {
			continue
		}
		kingTo := kingDestination(us, kingside)
		rookTo := rookDestination(us, kingside)

		// Every square spanned by either the king's or the rook's journey
		// must be empty, save for the squares the king and rook already
		// occupy themselves (relevant in Chess960 layouts where destination
		// squares can equal the pieces' own origins).
		clear := squareRangeMask(from, kingTo) | squareRangeMask(rookSq, rookTo)
		clear &^= squareMask(from) | squareMask(rookSq)
		if clear&occAll != 0 {
			continue
		}

		blocked := false
		lo, hi := from, kingTo
		if lo > hi {
			lo, hi = hi, lo
		}
		for sq := lo; sq <= hi; sq++ {
			if p.IsAttacked(sq, them) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		buf = append(buf, NewMove(from, kingTo, FlagCastle, NoPieceType))
	}
	return buf
}

// squareRangeMask returns every square strictly between a and b, plus b
// itself (the destination), on the same rank.
func squareRangeMask(a, b Square) Bitboard {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	var mask Bitboard
	for sq := lo; sq <= hi; sq++ {
		mask |= squareMask(sq)
	}
	return mask &^ squareMask(a)
}
