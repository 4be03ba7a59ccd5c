package board

// undoState is the information MakeMove cannot recompute from the move
// alone, snapshotted before mutation and restored by UnmakeMove. Passed by
// value on the call stack, mirroring the teacher's MoveState — no global
// undo stack.
type undoState struct {
	captured Piece
	epSquare Square
	castling CastlingRights
	halfmove int
	hash     uint64
}

// MakeMove applies move unconditionally: it does not check legality. The
// generator is pseudo-legal (GenerateMoves), so callers must check
// MoverInCheck after MakeMove and UnmakeMove any move that leaves the mover
// in check. Returns the undo token UnmakeMove needs.
func (p *Position) MakeMove(m Move) undoState {
	from, to := m.From(), m.To()
	us := p.sideToMove
	them := us.Opponent()
	moving := p.pieces[from]

	undo := undoState{
		epSquare: p.epSquare,
		castling: p.castling,
		halfmove: p.halfmove,
		hash:     p.hash,
	}

	if p.epSquare != NoSquare {
		p.hash ^= zobristEnPassant[p.epSquare.File()]
	}
	p.epSquare = NoSquare
	p.hash ^= castleRightKeys(p.castling)

	switch m.Flag() {
	case FlagEnPassant:
		capSq := MakeSquare(to.File(), from.Rank())
		undo.captured = p.removePiece(capSq)
		p.removePiece(from)
		p.addPiece(to, moving)

	case FlagCastle:
		kingside := to.File() > from.File()
		rookFrom := p.castling.slot(us, kingside)
		kingTo := kingDestination(us, kingside)
		rookTo := rookDestination(us, kingside)
		p.removePiece(from)
		p.removePiece(rookFrom)
		p.addPiece(kingTo, moving)
		p.addPiece(rookTo, MakePiece(us, Rook))
		undo.captured = NoPiece

	case FlagPromotion:
		undo.captured = p.removePiece(to)
		p.removePiece(from)
		p.addPiece(to, MakePiece(us, m.Promotion()))

	default:
		undo.captured = p.removePiece(to)
		p.removePiece(from)
		p.addPiece(to, moving)
	}

	if moving.Type() == King {
		p.castling.clearColor(us)
	}
	p.castling.clearRookOrigin(from)
	p.castling.clearRookOrigin(to)

	if moving.Type() == Pawn || undo.captured != NoPiece {
		p.halfmove = 0
	} else {
		p.halfmove++
	}
	if moving.Type() == Pawn && abs8(to-from) == 16 {
		p.epSquare = MakeSquare(from.File(), (int(from.Rank())+int(to.Rank()))/2)
		p.hash ^= zobristEnPassant[p.epSquare.File()]
	}

	p.hash ^= castleRightKeys(p.castling)
	p.hash ^= zobristSide
	if us == Black {
		p.fullmove++
	}
	p.sideToMove = them
	p.ply++
	p.History = append(p.History, p.hash)

	return undo
}

// UnmakeMove reverses the effect of MakeMove(m), given the undo token it
// returned. Position must be in the exact state MakeMove left it in.
func (p *Position) UnmakeMove(m Move, undo undoState) {
	p.History = p.History[:len(p.History)-1]
	p.ply--
	them := p.sideToMove
	us := them.Opponent()
	p.sideToMove = us
	if us == Black {
		p.fullmove--
	}

	from, to := m.From(), m.To()

	switch m.Flag() {
	case FlagEnPassant:
		moved := p.removePiece(to)
		p.addPiece(from, moved)
		capSq := MakeSquare(to.File(), from.Rank())
		p.addPiece(capSq, MakePiece(them, Pawn))

	case FlagCastle:
		kingside := to.File() > from.File()
		rookFrom := undo.castling.slot(us, kingside)
		kingTo := kingDestination(us, kingside)
		rookTo := rookDestination(us, kingside)
		king := p.removePiece(kingTo)
		rook := p.removePiece(rookTo)
		p.addPiece(from, king)
		p.addPiece(rookFrom, rook)

	case FlagPromotion:
		p.removePiece(to)
		p.addPiece(from, MakePiece(us, Pawn))
		if undo.captured != NoPiece {
			p.addPiece(to, undo.captured)
		}

	default:
		moved := p.removePiece(to)
		p.addPiece(from, moved)
		if undo.captured != NoPiece {
			p.addPiece(to, undo.captured)
		}
	}

	p.epSquare = undo.epSquare
	p.castling = undo.castling
	p.halfmove = undo.halfmove
	p.hash = undo.hash
}

func abs8(v Square) Square {
	if v < 0 {
		return -v
	}
	return v
}

// MakeNullMove flips the side to move without moving a piece, used by
// null-move pruning. The en-passant right, if any, is cleared for the null
// child exactly as a real move would clear it.
func (p *Position) MakeNullMove() undoState {
	undo := undoState{epSquare: p.epSquare, castling: p.castling, halfmove: p.halfmove, hash: p.hash}
	if p.epSquare != NoSquare {
		p.hash ^= zobristEnPassant[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	p.hash ^= zobristSide
	them := p.sideToMove
	us := them.Opponent()
	if them == Black {
		p.fullmove++
	}
	p.sideToMove = us
	p.ply++
	p.History = append(p.History, p.hash)
	return undo
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove(undo undoState) {
	p.History = p.History[:len(p.History)-1]
	p.ply--
	them := p.sideToMove.Opponent()
	if p.sideToMove == White {
		p.fullmove--
	}
	p.sideToMove = them
	p.epSquare = undo.epSquare
	p.castling = undo.castling
	p.halfmove = undo.halfmove
	p.hash = undo.hash
}
