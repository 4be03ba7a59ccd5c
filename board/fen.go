package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a Position. Both standard castling
// notation (KQkq) and Shredder-FEN / X-FEN notation (rook origin files, e.g.
// "HAha") are accepted; the latter is required for Chess960 positions where
// KQkq is ambiguous about which rook a right refers to.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("board: FEN needs at least 4 fields, got %d", len(fields))
	}

	p := &Position{epSquare: NoSquare, castling: NoCastling}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("board: FEN placement has %d ranks, want 8", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := pieceFromLetter(byte(ch))
			if !ok {
				return nil, fmt.Errorf("board: FEN bad piece letter %q", ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("board: FEN rank %d overflows", i)
			}
			p.addPiece(MakeSquare(file, rank), pc)
			file++
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
		p.hash ^= zobristSide
	default:
		return nil, fmt.Errorf("board: FEN bad side-to-move %q", fields[1])
	}

	if err := p.parseCastling(fields[2]); err != nil {
		return nil, err
	}
	p.hash ^= castleRightKeys(p.castling)

	if fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok {
			return nil, fmt.Errorf("board: FEN bad en-passant square %q", fields[3])
		}
		p.epSquare = sq
		p.hash ^= zobristEnPassant[sq.File()]
	}

	p.halfmove = 0
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			p.halfmove = n
		}
	}
	p.fullmove = 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			p.fullmove = n
		}
	}

	p.History = append(p.History, p.hash)
	return p, nil
}

func pieceFromLetter(ch byte) (Piece, bool) {
	lower := ch
	color := White
	if lower >= 'a' && lower <= 'z' {
		color = Black
	} else {
		lower += 'a' - 'A'
	}
	var kind PieceType
	switch lower {
	case 'p':
		kind = Pawn
	case 'n':
		kind = Knight
	case 'b':
		kind = Bishop
	case 'r':
		kind = Rook
	case 'q':
		kind = Queen
	case 'k':
		kind = King
	default:
		return NoPiece, false
	}
	return MakePiece(color, kind), true
}

// parseCastling accepts "KQkq", "-", and Shredder-FEN file-letter rights
// ("HAha"), disambiguating by locating the named rook relative to its
// king's file — a letter above the king's file is the kingside rook.
func (p *Position) parseCastling(field string) error {
	if field == "-" {
		return nil
	}
	whiteKing := p.KingSquare(White)
	blackKing := p.KingSquare(Black)

	for _, ch := range field {
		switch ch {
		case 'K':
			if sq := findOutermostRook(p, White, whiteKing, true); sq != NoSquare {
				p.castling.setSlot(White, true, sq)
			}
		case 'Q':
			if sq := findOutermostRook(p, White, whiteKing, false); sq != NoSquare {
				p.castling.setSlot(White, false, sq)
			}
		case 'k':
			if sq := findOutermostRook(p, Black, blackKing, true); sq != NoSquare {
				p.castling.setSlot(Black, true, sq)
			}
		case 'q':
			if sq := findOutermostRook(p, Black, blackKing, false); sq != NoSquare {
				p.castling.setSlot(Black, false, sq)
			}
		default:
			file := strings.ToLower(string(ch))[0]
			if file < 'a' || file > 'h' {
				return fmt.Errorf("board: FEN bad castling letter %q", ch)
			}
			color := White
			kingSq := whiteKing
			if ch >= 'a' && ch <= 'h' {
				color = Black
				kingSq = blackKing
			}
			rookFile := int(file - 'a')
			rookSq := MakeSquare(rookFile, backRank(color))
			p.castling.setSlot(color, rookFile > kingSq.File(), rookSq)
		}
	}
	return nil
}

// findOutermostRook locates the rook of c on the home rank farthest in the
// given direction from the king, matching standard KQkq semantics (K/Q refer
// to the a- or h-file rook, not a specific origin square).
func findOutermostRook(p *Position, c Color, kingSq Square, kingside bool) Square {
	rank := backRank(c)
	if kingside {
		for file := 7; file > kingSq.File(); file-- {
			sq := MakeSquare(file, rank)
			if pc := p.PieceAt(sq); pc.Type() == Rook && pc.Color() == c {
				return sq
			}
		}
	} else {
		for file := 0; file < kingSq.File(); file++ {
			sq := MakeSquare(file, rank)
			if pc := p.PieceAt(sq); pc.Type() == Rook && pc.Color() == c {
				return sq
			}
		}
	}
	return NoSquare
}

// ToFEN renders the position. Castling rights render in Shredder-FEN
// (rook-file-letter) notation whenever any right's rook does not sit on its
// standard a-/h-file square; otherwise plain KQkq is used.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(MakeSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingFENField())

	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())

	sb.WriteString(fmt.Sprintf(" %d %d", p.halfmove, p.fullmove))
	return sb.String()
}

func (p *Position) castlingFENField() string {
	if p.castling == NoCastling {
		return "-"
	}
	if p.isStandardCastling() {
		var sb strings.Builder
		if p.castling.WhiteKingRook != NoSquare {
			sb.WriteByte('K')
		}
		if p.castling.WhiteQueenRook != NoSquare {
			sb.WriteByte('Q')
		}
		if p.castling.BlackKingRook != NoSquare {
			sb.WriteByte('k')
		}
		if p.castling.BlackQueenRook != NoSquare {
			sb.WriteByte('q')
		}
		return sb.String()
	}

	var sb strings.Builder
	writeFile := func(sq Square, upper bool) {
		ch := byte('a' + sq.File())
		if upper {
			ch -= 'a' - 'A'
		}
		sb.WriteByte(ch)
	}
	if p.castling.WhiteKingRook != NoSquare {
		writeFile(p.castling.WhiteKingRook, true)
	}
	if p.castling.WhiteQueenRook != NoSquare {
		writeFile(p.castling.WhiteQueenRook, true)
	}
	if p.castling.BlackKingRook != NoSquare {
		writeFile(p.castling.BlackKingRook, false)
	}
	if p.castling.BlackQueenRook != NoSquare {
		writeFile(p.castling.BlackQueenRook, false)
	}
	return sb.String()
}

func (p *Position) isStandardCastling() bool {
	ok := func(sq Square, file int) bool { return sq == NoSquare || sq.File() == file }
	return ok(p.castling.WhiteKingRook, 7) && ok(p.castling.WhiteQueenRook, 0) &&
		ok(p.castling.BlackKingRook, 7) && ok(p.castling.BlackQueenRook, 0)
}
