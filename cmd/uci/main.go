package main

import (
	"context"
	"flag"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"corvidchess/board"
	"corvidchess/book"
	"corvidchess/eval"
	"corvidchess/learn"
	"corvidchess/protocol"
	"corvidchess/search"
	"corvidchess/tablebase"
)

// engineAdapter satisfies protocol.Engine on top of search.Coordinator,
// tracking the current position and the handful of options the teacher's
// uci.go kept in package-level variables.
type engineAdapter struct {
	coord *search.Coordinator
	book  *book.Book
	learn *learn.Store
	pos   *board.Position
	log   zerolog.Logger

	ownBook bool
	ponder  bool // informational: actual pondering is driven per-search by "go ponder", not this option
	multiPV int
}

func (e *engineAdapter) NewGame() {
	e.pos = board.NewStartingPosition()
	e.coord.NewGame()
}

func (e *engineAdapter) SetPosition(pos *board.Position) {
	e.pos = pos
}

func (e *engineAdapter) SetOption(name, value string) {
	switch name {
	case "Hash":
		e.coord.ResizeHash(atoiDefault(value, 64))
	case "Threads":
		e.coord.SetThreads(atoiDefault(value, 1))
	case "MultiPV":
		e.multiPV = atoiDefault(value, 1)
	case "Ponder":
		e.ponder = value == "true"
	case "OwnBook":
		e.ownBook = value == "true"
	case "BookVariety":
		e.book.SetVariety(float64(atoiDefault(value, 0)))
	case "BookPath":
		if value != "" {
			if err := e.book.Load(value); err != nil {
				e.log.Warn().Err(err).Str("path", value).Msg("failed to load opening book")
			}
		}
	case "SyzygyPath":
		// No Syzygy decoder ships with this module (see tablebase package
		// doc comment); accept the option so GUIs don't treat it as
		// unsupported, but there is no prober for it to configure.
		if value != "" {
			e.log.Debug().Str("path", value).Msg("SyzygyPath set but no Syzygy backend is wired in; tablebase probing stays disabled")
		}
	case "EvalFile":
		if value == "" {
			e.coord.SetEvaluator(eval.Classical{})
			return
		}
		net := eval.NewNNUE()
		if err := net.Load(value); err != nil {
			e.log.Warn().Err(err).Str("path", value).Msg("failed to load NNUE weights, keeping previous evaluator")
			return
		}
		e.coord.SetEvaluator(eval.NewBlend(net, eval.Classical{}, 256))
	case "MoveOverhead":
		e.coord.SetMoveOverhead(int64(atoiDefault(value, 100)))
	case "Learn":
		e.learn.SetEnabled(value == "true")
	case "LearnFile":
		e.learn.SetPath(value)
		if err := e.learn.Load(); err != nil {
			e.log.Warn().Err(err).Str("path", value).Msg("failed to load learning file")
		}
	}
}

func (e *engineAdapter) Go(limits search.Limits, onInfo func(search.InfoLine)) search.RootResult {
	if e.ownBook {
		if m := e.book.Probe(e.pos); !m.IsNone() {
			return search.RootResult{BestMove: m}
		}
	}
	if limits.MultiPV <= 0 {
		limits.MultiPV = e.multiPV
	}
	return e.coord.Go(context.Background(), e.pos, limits, onInfo)
}

func (e *engineAdapter) Stop() { e.coord.Stop() }

func (e *engineAdapter) PonderHit() { e.coord.PonderHit() }

// tbAdapter bridges a tablebase.Prober to search.TablebaseProbe — the two
// packages deliberately don't share a WDL type to avoid an import cycle.
type tbAdapter struct{ prober tablebase.Prober }

func (a tbAdapter) CanProbe(pos *board.Position) bool { return a.prober.CanProbe(pos) }
func (a tbAdapter) ProbeWDL(pos *board.Position) (int, bool) {
	wdl, ok := a.prober.ProbeWDL(pos)
	return int(wdl), ok
}

func atoiDefault(s string, def int) int {
	n := 0
	seen := false
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return def
		}
		n = n*10 + int(ch-'0')
		seen = true
	}
	if !seen {
		return def
	}
	return n
}

func main() {
	hashMB := flag.Int("hash", 64, "transposition table size in megabytes")
	threads := flag.Int("threads", runtime.NumCPU(), "search worker threads")
	evalFile := flag.String("evalfile", "", "path to an NNUE weights file; falls back to the classical evaluator when unset or unreadable")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var evaluator eval.Evaluator = eval.Classical{}
	if *evalFile != "" {
		net := eval.NewNNUE()
		if err := net.Load(*evalFile); err != nil {
			logger.Warn().Err(err).Str("path", *evalFile).Msg("failed to load NNUE weights, using classical evaluator")
		} else {
			evaluator = eval.NewBlend(net, eval.Classical{}, 256)
		}
	}

	tt := search.NewTable(*hashMB)
	coord := search.NewCoordinator(tt, evaluator, *threads, logger)
	coord.SetTablebase(tbAdapter{prober: tablebase.NoOpProber{}})

	ob := book.New()
	coord.SetBook(ob)
	learnStore := learn.New(learn.DefaultSize)
	coord.SetLearningStore(learnStore)

	engine := &engineAdapter{coord: coord, book: ob, learn: learnStore, pos: board.NewStartingPosition(), log: logger, multiPV: 1}

	protocol.Loop(os.Stdin, os.Stdout, engine, "corvidchess", "corvidchess contributors")

	if learnStore.Enabled() {
		if err := learnStore.Save(); err != nil {
			logger.Error().Err(err).Msg("failed to persist learning file on exit")
		}
	}
}
