// Package protocol implements the UCI text protocol loop on top of an
// Engine: parsing position/go/setoption commands and writing info/bestmove
// replies. Grounded on the root uci.go command dispatch (a bufio.Scanner
// line loop, sub-scanner token parsing for "go"), restructured around an
// Engine seam instead of calling the engine package's globals directly.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"corvidchess/board"
	"corvidchess/search"
)

// Engine is everything the UCI loop needs from the search core. cmd/uci's
// engineAdapter implements it on top of search.Coordinator; a test double
// can substitute a scripted stand-in.
type Engine interface {
	NewGame()
	SetPosition(pos *board.Position)
	Go(limits search.Limits, onInfo func(search.InfoLine)) search.RootResult
	Stop()
	PonderHit()
	SetOption(name, value string)
}

// Loop reads UCI commands from in and writes replies to out until "quit" or
// EOF. name/author populate the "id" response.
func Loop(in io.Reader, out io.Writer, engine Engine, name, author string) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	pos := board.NewStartingPosition()
	chess960 := false

	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "uci":
			fmt.Fprintf(out, "id name %s\n", name)
			fmt.Fprintf(out, "id author %s\n", author)
			writeOptions(out)
			fmt.Fprintln(out, "uciok")

		case "isready":
			fmt.Fprintln(out, "readyok")

		case "ucinewgame":
			pos = board.NewStartingPosition()
			engine.NewGame()

		case "setoption":
			n, v := parseSetOption(fields[1:])
			if strings.EqualFold(n, "UCI_Chess960") {
				chess960 = strings.EqualFold(v, "true")
			}
			engine.SetOption(n, v)

		case "position":
			pos = parsePosition(fields[1:], chess960)
			engine.SetPosition(pos)

		case "go":
			limits := parseGo(fields[1:])
			result := engine.Go(limits, func(info search.InfoLine) {
				writeInfo(out, info)
			})
			writeBestMove(out, result, pos, chess960)

		case "stop":
			engine.Stop()

		case "ponderhit":
			engine.PonderHit()

		case "quit":
			return
		}
	}
}

func writeOptions(out io.Writer) {
	fmt.Fprintln(out, "option name Hash type spin default 64 min 1 max 65536")
	fmt.Fprintln(out, "option name Threads type spin default 1 min 1 max 256")
	fmt.Fprintln(out, "option name MultiPV type spin default 1 min 1 max 256")
	fmt.Fprintln(out, "option name Ponder type check default false")
	fmt.Fprintln(out, "option name UCI_Chess960 type check default false")
	fmt.Fprintln(out, "option name OwnBook type check default false")
	fmt.Fprintln(out, "option name BookVariety type spin default 0 min 0 max 10")
	fmt.Fprintln(out, "option name BookPath type string default <empty>")
	fmt.Fprintln(out, "option name SyzygyPath type string default <empty>")
	fmt.Fprintln(out, "option name Learn type check default false")
	fmt.Fprintln(out, "option name LearnFile type string default learn.bin")
	fmt.Fprintln(out, "option name EvalFile type string default <empty>")
	fmt.Fprintln(out, "option name MoveOverhead type spin default 100 min 0 max 5000")
}

func parseSetOption(fields []string) (name, value string) {
	// "name <N...> value <V...>" — either token list may be multi-word.
	nameParts, valueParts := []string{}, []string{}
	mode := 0
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "name":
			mode = 1
			continue
		case "value":
			mode = 2
			continue
		}
		switch mode {
		case 1:
			nameParts = append(nameParts, f)
		case 2:
			valueParts = append(valueParts, f)
		}
	}
	return strings.Join(nameParts, " "), strings.Join(valueParts, " ")
}

func parsePosition(fields []string, chess960 bool) *board.Position {
	if len(fields) == 0 {
		return board.NewStartingPosition()
	}
	var pos *board.Position
	idx := 0
	switch fields[0] {
	case "startpos":
		pos = board.NewStartingPosition()
		idx = 1
	case "fen":
		end := 1
		for end < len(fields) && fields[end] != "moves" {
			end++
		}
		fen := strings.Join(fields[1:end], " ")
		p, err := board.ParseFEN(fen)
		if err != nil {
			return board.NewStartingPosition()
		}
		pos = p
		idx = end
	default:
		return board.NewStartingPosition()
	}

	if idx < len(fields) && fields[idx] == "moves" {
		for _, token := range fields[idx+1:] {
			applyUCIMove(pos, token, chess960)
		}
	}
	return pos
}

func applyUCIMove(pos *board.Position, token string, chess960 bool) {
	if len(token) < 4 {
		return
	}
	from, ok1 := board.ParseSquare(token[0:2])
	to, ok2 := board.ParseSquare(token[2:4])
	if !ok1 || !ok2 {
		return
	}
	if chess960 {
		to = remapChess960CastleTo(pos, from, to)
	}
	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0], false)
	for _, m := range moves {
		if m.From() != from || m.To() != to {
			continue
		}
		if len(token) == 5 {
			promo, ok := promotionFromLetter(token[4])
			if !ok || m.Promotion() != promo {
				continue
			}
		} else if m.Promotion() != board.NoPieceType {
			continue
		}
		pos.MakeMove(m)
		return
	}
}

// remapChess960CastleTo rewrites a Chess960-style king-onto-own-rook "to"
// square into this engine's internal king-destination encoding (g-file
// kingside, c-file queenside) — the mirror of renderMove's reverse-direction
// rewrite. Squares that aren't a king making a recognized castling move pass
// through unchanged.
func remapChess960CastleTo(pos *board.Position, from, to board.Square) board.Square {
	piece := pos.PieceAt(from)
	if piece.Type() != board.King {
		return to
	}
	us := piece.Color()
	rank := from.Rank()
	rights := pos.Castling()
	switch to {
	case rights.WhiteKingRook:
		if us == board.White {
			return board.MakeSquare(6, rank)
		}
	case rights.WhiteQueenRook:
		if us == board.White {
			return board.MakeSquare(2, rank)
		}
	case rights.BlackKingRook:
		if us == board.Black {
			return board.MakeSquare(6, rank)
		}
	case rights.BlackQueenRook:
		if us == board.Black {
			return board.MakeSquare(2, rank)
		}
	}
	return to
}

func promotionFromLetter(ch byte) (board.PieceType, bool) {
	switch ch {
	case 'n':
		return board.Knight, true
	case 'b':
		return board.Bishop, true
	case 'r':
		return board.Rook, true
	case 'q':
		return board.Queen, true
	default:
		return board.NoPieceType, false
	}
}

func parseGo(fields []string) search.Limits {
	var limits search.Limits
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "wtime":
			i++
			limits.WhiteTime = atoi64(fields, i)
		case "btime":
			i++
			limits.BlackTime = atoi64(fields, i)
		case "winc":
			i++
			limits.WhiteInc = atoi64(fields, i)
		case "binc":
			i++
			limits.BlackInc = atoi64(fields, i)
		case "movestogo":
			i++
			limits.MovesToGo = int(atoi64(fields, i))
		case "depth":
			i++
			limits.Depth = int(atoi64(fields, i))
		case "nodes":
			i++
			limits.Nodes = uint64(atoi64(fields, i))
		case "movetime":
			i++
			limits.MoveTime = atoi64(fields, i)
		}
	}
	return limits
}

func atoi64(fields []string, i int) int64 {
	if i >= len(fields) {
		return 0
	}
	v, err := strconv.ParseInt(fields[i], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func writeInfo(out io.Writer, info search.InfoLine) {
	multiPV := info.MultiPV
	if multiPV < 1 {
		multiPV = 1
	}
	fmt.Fprintf(out, "info depth %d seldepth %d multipv %d score %s nodes %d nps %d time %d pv %s\n",
		info.Depth, info.SelDepth, multiPV, search.FormatScore(info.Score), info.Nodes, info.NPS, info.TimeMs, pvString(info.PV))
}

func pvString(pv []board.Move) string {
	var sb strings.Builder
	for i, m := range pv {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}

func writeBestMove(out io.Writer, result search.RootResult, pos *board.Position, chess960 bool) {
	best := renderMove(result.BestMove, pos, chess960)
	if result.PonderMove.IsNone() {
		fmt.Fprintf(out, "bestmove %s\n", best)
		return
	}
	ponder := renderMove(result.PonderMove, pos, chess960)
	fmt.Fprintf(out, "bestmove %s ponder %s\n", best, ponder)
}

// renderMove rewrites a castle move into king-origin to rook-origin notation
// for Chess960/Shredder-FEN clients, leaving every other move as long algebraic.
func renderMove(m board.Move, pos *board.Position, chess960 bool) string {
	if m.IsNone() {
		return "0000"
	}
	if !chess960 || m.Flag() != board.FlagCastle {
		return m.String()
	}
	rights := pos.Castling()
	us := pos.PieceAt(m.From()).Color()
	var rookSq board.Square
	if m.To().File() > m.From().File() {
		if us == board.White {
			rookSq = rights.WhiteKingRook
		} else {
			rookSq = rights.BlackKingRook
		}
	} else {
		if us == board.White {
			rookSq = rights.WhiteQueenRook
		} else {
			rookSq = rights.BlackQueenRook
		}
	}
	return m.From().String() + rookSq.String()
}
