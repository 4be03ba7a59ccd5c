package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"corvidchess/board"
)

// Coordinator runs a multi-threaded search: at the start of each call, the
// legal root moves are split round-robin across workers (each searches its
// own slice, falling back to the full list when threads outnumber moves),
// and every worker shares one transposition table so a deep worker's
// findings still steer a shallow worker's move ordering within its own
// slice. A live best-result slot is updated via compare-and-set as workers
// complete depths, so the reported move can improve mid-search rather than
// only once every worker finishes. Grounded on the errgroup worker-pool
// shape in other_examples/domino14-macondo's solver (ticker goroutine +
// search goroutine joined by errgroup.Wait), and on original_source/hugine.cpp's
// shared atomic stop flag / shared_best_move / shared_best_score globals,
// here expressed as an atomic.Pointer CAS loop instead of a mutex-guarded
// pair of globals. The teacher's Young-Brothers-Wait-Concept split point
// (a shared sync.Mutex/sync.Cond work-stealing node) is deliberately not
// reproduced — root partitioning already keeps every worker busy on
// disjoint work, and a full split-point tree would add real lock
// contention for a benefit this engine's thread counts don't need.
type Coordinator struct {
	tt     *Table
	eval   Evaluator
	book   BookProbe
	tb     TablebaseProbe
	learn  LearningStore
	logger zerolog.Logger

	stop int32 // atomic; 0 = running, 1 = requested to stop

	threads        int
	moveOverheadMs int64

	tmMu          sync.Mutex
	tm            *TimeManager
	tmLimits      Limits
	tmWhiteToMove bool

	best atomic.Pointer[bestSlot]
}

// bestSlot is the compare-and-set target every worker's completed depth
// races to publish into: only a strictly deeper (or, at equal depth, higher
// scoring) result replaces the current one, so a shallow worker can never
// clobber a deep worker's finding — the shared_best_move / shared_best_score
// pair from original_source/hugine.cpp, expressed as an atomic pointer swap
// instead of a mutex-guarded global.
type bestSlot struct {
	result RootResult
}

// publishBest attempts to install r as the shared best result, retrying the
// CAS if another worker races in between load and store, and giving up (a
// no-op) once some other worker has already published something at least
// as good.
func (c *Coordinator) publishBest(r RootResult) {
	for {
		cur := c.best.Load()
		if cur != nil && (cur.result.Depth > r.Depth || (cur.result.Depth == r.Depth && cur.result.Score >= r.Score)) {
			return
		}
		next := &bestSlot{result: r}
		if cur == nil {
			if c.best.CompareAndSwap(nil, next) {
				return
			}
		} else if c.best.CompareAndSwap(cur, next) {
			return
		}
	}
}

func NewCoordinator(tt *Table, eval Evaluator, threads int, logger zerolog.Logger) *Coordinator {
	if threads < 1 {
		threads = 1
	}
	return &Coordinator{tt: tt, eval: eval, threads: threads, logger: logger, moveOverheadMs: 100}
}

// legalRootMoves returns every legal move from pos, filtering out moves that
// leave the mover in check the same way board.Perft does.
func legalRootMoves(pos *board.Position) []board.Move {
	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0], false)
	legal := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		undo := pos.MakeMove(m)
		inCheck := pos.MoverInCheck()
		pos.UnmakeMove(m, undo)
		if !inCheck {
			legal = append(legal, m)
		}
	}
	return legal
}

// partitionRootMoves splits moves round-robin into n slices, one per worker.
// A worker whose slice comes up empty (more workers than legal moves) gets
// nil, which Searcher.Run treats as "unrestricted" rather than "no moves".
func partitionRootMoves(moves []board.Move, n int) [][]board.Move {
	parts := make([][]board.Move, n)
	for i, m := range moves {
		w := i % n
		parts[w] = append(parts[w], m)
	}
	return parts
}

func (c *Coordinator) SetBook(b BookProbe)              { c.book = b }
func (c *Coordinator) SetTablebase(t TablebaseProbe)    { c.tb = t }
func (c *Coordinator) SetLearningStore(l LearningStore) { c.learn = l }
func (c *Coordinator) SetEvaluator(e Evaluator)         { c.eval = e }
func (c *Coordinator) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	c.threads = n
}

// ResizeHash reallocates the transposition table to sizeMB megabytes,
// discarding its contents, per the "Hash" UCI option.
func (c *Coordinator) ResizeHash(sizeMB int) { c.tt.Resize(sizeMB) }

// SetMoveOverhead sets the per-move time reservation every subsequent
// Go call's time manager starts with, per the "MoveOverhead" UCI option.
func (c *Coordinator) SetMoveOverhead(ms int64) { c.moveOverheadMs = ms }

// Stop requests every running search to abort as soon as it next polls the
// shared flag.
func (c *Coordinator) Stop() { atomic.StoreInt32(&c.stop, 1) }

// PonderHit transitions an in-flight "go ponder" search to a normal timed
// search, per the UCI "ponderhit" command: the time manager recomputes its
// soft/hard budgets from the limits the pondering search was started with
// and starts counting elapsed time from this instant, exactly as if "go"
// had been issued now instead of at ponder-start.
func (c *Coordinator) PonderHit() {
	c.tmMu.Lock()
	tm, limits, white := c.tm, c.tmLimits, c.tmWhiteToMove
	c.tmMu.Unlock()
	if tm != nil {
		tm.PonderHit(limits, white)
	}
}

// NewGame clears the transposition table so a new game never reuses stale
// bounds from an unrelated prior position, matching the UCI "ucinewgame"
// contract.
func (c *Coordinator) NewGame() {
	c.tt.Clear()
}

// Go runs the full multi-threaded search to completion (or until ctx is
// canceled, limits expire, or Stop is called), returning the best of: the
// live CAS-published shared best result, and whichever worker's own final
// result reached the greatest depth (falling back to that comparison alone
// if nothing was ever published) — a deeper same-position result is never
// worse-informed than a shallower one sharing the same table.
func (c *Coordinator) Go(ctx context.Context, pos *board.Position, limits Limits, onInfo func(InfoLine)) RootResult {
	atomic.StoreInt32(&c.stop, 0)
	c.tt.NewSearch()
	c.best.Store(nil)

	whiteToMove := pos.SideToMove() == board.White
	tm := NewTimeManager()
	tm.SetMoveOverhead(c.moveOverheadMs)
	tm.Start(limits, whiteToMove)

	c.tmMu.Lock()
	c.tm, c.tmLimits, c.tmWhiteToMove = tm, limits, whiteToMove
	c.tmMu.Unlock()
	defer func() {
		c.tmMu.Lock()
		c.tm = nil
		c.tmMu.Unlock()
	}()

	g, gctx := errgroup.WithContext(ctx)
	results := make([]RootResult, c.threads)

	// Root moves are partitioned across threads at iteration start: each
	// worker searches its own slice first, falling back to the full list
	// only when there are more workers than legal moves. limits.SearchMove
	// (UCI "go searchmoves") narrows the pool before it gets split.
	rootPool := limits.SearchMove
	if len(rootPool) == 0 {
		rootPool = legalRootMoves(pos)
	}
	partitions := partitionRootMoves(rootPool, c.threads)

	g.Go(func() error {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if limits.MoveTime > 0 || limits.WhiteTime > 0 || limits.BlackTime > 0 {
					if tm.StopEarly() {
						atomic.StoreInt32(&c.stop, 1)
						return nil
					}
				}
			}
		}
	})

	for i := 0; i < c.threads; i++ {
		i := i
		g.Go(func() error {
			worker := NewSearcher(c.tt, c.eval, c.book, c.tb, c.learn, &c.stop)
			threadLimits := limits
			threadLimits.SearchMove = partitions[i]
			info := func(line InfoLine) {
				c.publishBest(RootResult{
					BestMove:   line.PV[0],
					PonderMove: pondermove(line.PV),
					Score:      line.Score,
					Depth:      line.Depth,
				})
				if i == 0 && onInfo != nil {
					onInfo(line)
				}
			}
			clone := pos.Clone()
			results[i] = worker.Run(clone, threadLimits, tm, info)
			if i == 0 {
				atomic.StoreInt32(&c.stop, 1) // main thread finished its depth budget; helpers stop too
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error().Err(err).Msg("search coordinator: worker error")
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Depth > best.Depth || (r.Depth == best.Depth && r.Score > best.Score) {
			best = r
		}
	}
	if shared := c.best.Load(); shared != nil {
		if shared.result.Depth > best.Depth || (shared.result.Depth == best.Depth && shared.result.Score > best.Score) {
			best = shared.result
		}
	}
	return best
}

func pondermove(pv []board.Move) board.Move {
	if len(pv) > 1 {
		return pv[1]
	}
	return board.NoMove
}
