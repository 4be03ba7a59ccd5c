package board

import "strings"

// MoveFlag identifies special move kinds. Promotion kind is carried separately.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagPromotion
	FlagCastle
	FlagEnPassant
)

// Move is a compact encoding: from (6 bits), to (6 bits), flag (4 bits),
// promotion kind (4 bits, only meaningful when flag==FlagPromotion).
type Move uint32

const (
	moveFromShift  = 0
	moveToShift    = 6
	moveFlagShift  = 12
	movePromoShift = 16
)

// NoMove is the absence-of-a-move sentinel (e.g. no legal move, book miss).
const NoMove Move = 0

// NullMove is the side-skipping probe used by null-move pruning. It is never
// produced by the generator and never legality-checked; search recognizes it
// structurally via MakeNullMove/UnmakeNullMove instead of by playing it.
const NullMove Move = 1<<24 - 1

// NewMove builds a move from its components.
func NewMove(from, to Square, flag MoveFlag, promo PieceType) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<moveToShift |
		uint32(flag&0xF)<<moveFlagShift |
		uint32(promo&0xF)<<movePromoShift)
}

func (m Move) From() Square     { return Square((m >> moveFromShift) & 0x3F) }
func (m Move) To() Square       { return Square((m >> moveToShift) & 0x3F) }
func (m Move) Flag() MoveFlag   { return MoveFlag((m >> moveFlagShift) & 0xF) }
func (m Move) Promotion() PieceType {
	if m.Flag() != FlagPromotion {
		return NoPieceType
	}
	return PieceType((m >> movePromoShift) & 0xF)
}

func (m Move) IsNone() bool { return m == NoMove }
func (m Move) IsNull() bool { return m == NullMove }

var promoLetters = [7]byte{0, 0, 'n', 'b', 'r', 'q', 0}

// String renders the move in long algebraic form ("e2e4", "e7e8q", "0000" for NoMove).
// Castling is rendered king-origin to king-destination; callers in Chess960 mode
// remap to rook-origin notation via the Position's castling rights.
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	var sb strings.Builder
	sb.WriteString(m.From().String())
	sb.WriteString(m.To().String())
	if m.Flag() == FlagPromotion {
		sb.WriteByte(promoLetters[m.Promotion()])
	}
	return sb.String()
}

func promoFromLetter(ch byte) (PieceType, bool) {
	switch ch {
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	default:
		return NoPieceType, false
	}
}
