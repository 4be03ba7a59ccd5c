package board

// CastlingRights names, per color and side, the square the castling rook still
// starts from. A slot holds NoSquare once that right is lost. Squares (not
// boolean flags) are required so Chess960 starting files are representable;
// see castlingSlot for the fixed king/rook destinations this implies.
type CastlingRights struct {
	WhiteKingRook  Square
	WhiteQueenRook Square
	BlackKingRook  Square
	BlackQueenRook Square
}

// NoCastling is the all-rights-lost value.
var NoCastling = CastlingRights{NoSquare, NoSquare, NoSquare, NoSquare}

func (cr CastlingRights) slot(c Color, kingside bool) Square {
	switch {
	case c == White && kingside:
		return cr.WhiteKingRook
	case c == White && !kingside:
		return cr.WhiteQueenRook
	case c == Black && kingside:
		return cr.BlackKingRook
	default:
		return cr.BlackQueenRook
	}
}

func (cr *CastlingRights) setSlot(c Color, kingside bool, sq Square) {
	switch {
	case c == White && kingside:
		cr.WhiteKingRook = sq
	case c == White && !kingside:
		cr.WhiteQueenRook = sq
	case c == Black && kingside:
		cr.BlackKingRook = sq
	default:
		cr.BlackQueenRook = sq
	}
}

// clearColor drops both of a side's rights, e.g. because its king moved.
func (cr *CastlingRights) clearColor(c Color) {
	cr.setSlot(c, true, NoSquare)
	cr.setSlot(c, false, NoSquare)
}

// clearRookOrigin drops whichever right (if any) originates from sq — called
// both when a rook moves away from its origin and when a rook is captured there.
func (cr *CastlingRights) clearRookOrigin(sq Square) {
	if cr.WhiteKingRook == sq {
		cr.WhiteKingRook = NoSquare
	}
	if cr.WhiteQueenRook == sq {
		cr.WhiteQueenRook = NoSquare
	}
	if cr.BlackKingRook == sq {
		cr.BlackKingRook = NoSquare
	}
	if cr.BlackQueenRook == sq {
		cr.BlackQueenRook = NoSquare
	}
}

// backRank returns the home rank (0 or 7) for a side.
func backRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

// kingDestination is the king's fixed destination square for castling, regardless
// of Chess960 starting files: g-file kingside, c-file queenside.
func kingDestination(c Color, kingside bool) Square {
	file := 2 // c-file
	if kingside {
		file = 6 // g-file
	}
	return MakeSquare(file, backRank(c))
}

// rookDestination is the rook's fixed destination square for castling:
// f-file kingside, d-file queenside.
func rookDestination(c Color, kingside bool) Square {
	file := 3 // d-file
	if kingside {
		file = 5 // f-file
	}
	return MakeSquare(file, backRank(c))
}
