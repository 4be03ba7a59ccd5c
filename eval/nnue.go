package eval

import (
	"encoding/binary"
	"fmt"
	"os"

	"corvidchess/board"
)

// NNUE is a HalfKP-style evaluator: one feature-transformer accumulator per
// king (own side / opposing side), a clipped-ReLU hidden layer and a single
// linear output. Supplemented from the reference engine's NNUEEvaluator
// class for the feature indexing (king-relative, per piece/square/color),
// trimmed to one hidden layer since this engine has no trainer to produce
// weights for a deeper net.
//
// Unlike the reference engine, this evaluator recomputes both perspectives'
// accumulators from scratch on every Evaluate call rather than keeping an
// incremental per-ply accumulator stack mirrored to make/unmake: the search
// core calls Evaluate at most once per node (after quiescence has already
// walked the position), so the incremental path buys back cycles the
// search never spends in the first place, at the cost of a stack that has
// to be threaded through every move-make site in search.go and
// quiescence.go, including null moves and the singular-extension verification
// search. A full recompute is O(popcount) per call and always correct.
type NNUE struct {
	weights *nnueWeights
}

const (
	ftInputs  = 2 * 64 * 64 * 5 // perspective * kingSq * pieceSq * pieceType(P,N,B,R,Q)
	ftSize    = 256
	ftScale   = 64
	outScale  = 16
	magicWord = 0x5A5A5A31
)

type nnueWeights struct {
	ft      []int16 // ftInputs * ftSize
	ftBias  []int16 // ftSize
	out     []int16 // ftSize * 2 (both perspectives concatenated)
	outBias int32
}

type accumulator struct {
	values [ftSize]int32
}

// NewNNUE constructs an evaluator with a zeroed (untrained) weight set —
// callers normally follow with Load to bring in a trained file.
func NewNNUE() *NNUE {
	return &NNUE{weights: zeroWeights()}
}

func zeroWeights() *nnueWeights {
	return &nnueWeights{
		ft:     make([]int16, ftInputs*ftSize),
		ftBias: make([]int16, ftSize),
		out:    make([]int16, ftSize*2),
	}
}

// Load reads a weights file: a two-word uint32 header (magic, then a version
// word that is not checked) followed by the raw int16 feature-transformer,
// bias and output arrays and an int32 output bias, little-endian throughout.
// This package has no writer for the format.
func (n *NNUE) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var header [2]uint32
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return err
	}
	if header[0] != magicWord {
		return fmt.Errorf("eval: bad nnue weights magic %#x", header[0])
	}

	w := zeroWeights()
	for _, dst := range [][]int16{w.ft, w.ftBias, w.out} {
		if err := binary.Read(f, binary.LittleEndian, dst); err != nil {
			return fmt.Errorf("eval: reading nnue weights: %w", err)
		}
	}
	if err := binary.Read(f, binary.LittleEndian, &w.outBias); err != nil {
		return err
	}
	n.weights = w
	return nil
}

func featureIndex(perspective board.Color, kingSq board.Square, pieceColor board.Color, pieceSq board.Square, pt board.PieceType) int {
	own := 0
	if pieceColor != perspective {
		own = 1
	}
	ptIdx := int(pt) - 1 // Pawn=0..Queen=4; King pieces never feed the transformer
	return own*64*64*5 + (int(kingSq)*64+int(pieceSq))*5 + ptIdx
}

func (n *NNUE) recompute(acc *accumulator, pos *board.Position, perspective board.Color) {
	kingSq := pos.KingSquare(perspective)
	for i := range acc.values {
		acc.values[i] = int32(n.weights.ftBias[i])
	}
	for _, c := range [2]board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.Queen; pt++ {
			bb := pos.Pieces(c, pt)
			for bb != 0 {
				sq := bb.PopLSB()
				idx := featureIndex(perspective, kingSq, c, sq, pt)
				n.addFeature(acc, idx, 1)
			}
		}
	}
}

func (n *NNUE) addFeature(acc *accumulator, idx int, delta int32) {
	row := n.weights.ft[idx*ftSize : idx*ftSize+ftSize]
	for i, w := range row {
		acc.values[i] += delta * int32(w)
	}
}

func clippedReLU(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 127*ftScale {
		return 127 * ftScale
	}
	return v
}

// Evaluate reports the score from the side to move's perspective,
// rebuilding both perspectives' accumulators from the current position.
func (n *NNUE) Evaluate(pos *board.Position) int32 {
	var acc, oppAcc accumulator
	n.recompute(&acc, pos, board.White)
	n.recompute(&oppAcc, pos, board.Black)

	var sum int64
	for i := 0; i < ftSize; i++ {
		sum += int64(clippedReLU(acc.values[i])) * int64(n.weights.out[i])
		sum += int64(clippedReLU(oppAcc.values[i])) * int64(n.weights.out[ftSize+i])
	}
	score := int32(sum/int64(ftScale*outScale)) + n.weights.outBias

	if pos.SideToMove() == board.Black {
		score = -score
	}
	return score
}
