// Package engine wires the search driver into a worker goroutine that a
// front end (the UCI loop, typically) drives over channels: Go starts an
// iterative-deepening search, Stop cooperatively cancels it, Quit shuts the
// worker down. Info lines and the final best move arrive asynchronously so
// the front end never blocks waiting on the engine goroutine.
package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wrenfield/corvid/internal/board"
	"github.com/wrenfield/corvid/internal/logging"
	"github.com/wrenfield/corvid/internal/search"
)

var log = logging.Get()

// Info is one iterative-deepening progress report.
type Info struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// GoRequest starts a search from Pos under Limits.
type GoRequest struct {
	Pos    *board.Position
	Limits search.Limits
}

// Worker runs one search at a time on a dedicated goroutine.
type Worker struct {
	tt           *search.TranspositionTable
	searcher     *search.Searcher
	defaultDepth int

	goCh   chan GoRequest
	quitCh chan struct{}
	infoCh chan Info
	bestCh chan board.Move
}

// NewWorker creates a Worker with a transposition table of the given size
// in megabytes. defaultDepth bounds every search whose "go" command gives
// no depth, whether or not it has a time control (0 means no bound beyond
// MaxPly).
func NewWorker(hashMB, defaultDepth int) *Worker {
	tt := search.NewTranspositionTable(hashMB)
	return &Worker{
		tt:           tt,
		searcher:     search.NewSearcher(tt),
		defaultDepth: defaultDepth,
		goCh:         make(chan GoRequest),
		quitCh:       make(chan struct{}),
		infoCh:       make(chan Info, 64),
		bestCh:       make(chan board.Move, 1),
	}
}

// Run drives the worker's goroutine until the context is cancelled or Quit
// is called.
func (w *Worker) Run(ctx context.Context) error {
	log.Info("worker started")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.quitCh:
				log.Info("worker quitting")
				return nil
			case req := <-w.goCh:
				w.runSearch(req)
			}
		}
	})
	err := g.Wait()
	log.Infof("worker stopped: %v", err)
	return err
}

// Go submits a search request. It blocks until the worker goroutine picks
// it up; callers expecting to interrupt an in-flight search should call
// Stop first.
func (w *Worker) Go(req GoRequest) {
	w.goCh <- req
}

// Stop cooperatively cancels the in-flight search. The search checks this
// flag periodically rather than being preempted, so it may run briefly
// past the call.
func (w *Worker) Stop() {
	w.searcher.Stop()
}

// Quit shuts the worker goroutine down. Run returns nil afterward.
func (w *Worker) Quit() {
	close(w.quitCh)
}

// Info returns the channel of iterative-deepening progress reports.
func (w *Worker) Info() <-chan Info {
	return w.infoCh
}

// BestMove returns the channel the final chosen move is delivered on, once
// per search.
func (w *Worker) BestMove() <-chan board.Move {
	return w.bestCh
}

// HashFull reports the transposition table's fill level in permille.
func (w *Worker) HashFull() int {
	return w.tt.HashFull()
}

func (w *Worker) runSearch(req GoRequest) {
	w.searcher.Reset()

	tm := search.NewTimeManager()
	tm.Init(req.Limits, req.Pos.SideToMove, req.Pos.FullMoveNumber*2)

	maxDepth := req.Limits.Depth
	if maxDepth == 0 {
		maxDepth = w.defaultDepth
	}
	if maxDepth == 0 || maxDepth > search.MaxPly-1 {
		maxDepth = search.MaxPly - 1
	}

	var bestMove board.Move
	var prevMove board.Move
	stability := 0

	for depth := 1; depth <= maxDepth; depth++ {
		move, score := w.searcher.Search(req.Pos, depth)
		if move == board.NoMove {
			break
		}

		if move == prevMove {
			stability++
			tm.AdjustForStability(stability)
		} else {
			stability = 0
		}
		prevMove = move
		bestMove = move

		log.Debugf("depth %d: score %d, nodes %d, move %s", depth, score, w.searcher.Nodes(), move)

		select {
		case w.infoCh <- Info{
			Depth: depth,
			Score: score,
			Nodes: w.searcher.Nodes(),
			Time:  tm.Elapsed(),
			PV:    w.searcher.GetPV(),
		}:
		default:
		}

		if req.Limits.Nodes > 0 && w.searcher.Nodes() >= req.Limits.Nodes {
			break
		}
		if !req.Limits.Infinite && tm.PastOptimum() {
			break
		}
	}

	w.bestCh <- bestMove
}
