// Package order implements the staged move-ordering iterator used by the
// search driver. It never generates moves itself; it asks a Loader to fill
// a reused scratch buffer one phase at a time and hands moves back to the
// caller highest-score-first within that phase.
package order

import "github.com/wrenfield/corvid/internal/board"

// Phase is a stage of the move-ordering cursor.
type Phase int

const (
	// Pre is the state before any phase has been loaded.
	Pre Phase = iota
	HashTable
	QueenPromotions
	GoodCaptures
	EqualCaptures
	Killers
	Quiet
	BadCaptures
	Underpromotions
	done
)

func (ph Phase) String() string {
	switch ph {
	case Pre:
		return "Pre"
	case HashTable:
		return "HashTable"
	case QueenPromotions:
		return "QueenPromotions"
	case GoodCaptures:
		return "GoodCaptures"
	case EqualCaptures:
		return "EqualCaptures"
	case Killers:
		return "Killers"
	case Quiet:
		return "Quiet"
	case BadCaptures:
		return "BadCaptures"
	case Underpromotions:
		return "Underpromotions"
	default:
		return "Done"
	}
}

// Entry is one scored candidate in the current phase's scratch buffer.
type Entry struct {
	Move    board.Move
	Score   int
	Yielded bool
}

// Loader supplies the moves for each phase. Every method is a capability
// hook: embed BaseLoader to get a no-op default and override only the
// phases a particular search driver cares about. A Loader is responsible
// for not re-offering a move it already yielded earlier in the same
// iteration (most importantly, the hash move returned by LoadHash must not
// reappear out of LoadCaptures/LoadQuiets/LoadPromotions).
type Loader interface {
	// LoadHash appends the transposition-table move, if any, to buf.
	LoadHash(pos *board.Position, buf *[]Entry)

	// LoadPromotions appends pending promotion moves to buf. When
	// queenOnly is true only queen promotions are offered (the
	// QueenPromotions phase); otherwise every non-queen promotion is
	// offered (the Underpromotions phase).
	LoadPromotions(pos *board.Position, buf *[]Entry, queenOnly bool)

	// LoadCaptures appends capture moves to buf, unscored. Called once per
	// captures-band phase on a freshly cleared buf; ScoreCaptures is
	// expected to run immediately after.
	LoadCaptures(pos *board.Position, buf *[]Entry)

	// ScoreCaptures assigns Score to every entry LoadCaptures just
	// produced. The caller then filters the buffer down to the band for
	// the current phase (score > 0, == 0, or < 0).
	ScoreCaptures(pos *board.Position, buf []Entry)

	// LoadKillers appends killer quiet moves recorded for ply.
	LoadKillers(pos *board.Position, ply int, buf *[]Entry)

	// LoadQuiets appends all remaining quiet moves, scored by history.
	LoadQuiets(pos *board.Position, buf *[]Entry)
}

// BaseLoader implements Loader with six no-ops. Embed it in a concrete
// Loader to pick up default behavior for phases you don't care about.
type BaseLoader struct{}

func (BaseLoader) LoadHash(*board.Position, *[]Entry)                  {}
func (BaseLoader) LoadPromotions(*board.Position, *[]Entry, bool)       {}
func (BaseLoader) LoadCaptures(*board.Position, *[]Entry)               {}
func (BaseLoader) ScoreCaptures(*board.Position, []Entry)               {}
func (BaseLoader) LoadKillers(*board.Position, int, *[]Entry)           {}
func (BaseLoader) LoadQuiets(*board.Position, *[]Entry)                 {}

// OrderedMoves is the staged move-ordering cursor. Outer state is the
// current Phase; inner state is a single reused buffer of scored entries
// for that phase, walked by repeated selection-sort picks so the highest
// remaining score always comes out next.
type OrderedMoves struct {
	pos    *board.Position
	loader Loader
	ply    int
	phase  Phase
	buf    []Entry
}

// New creates an OrderedMoves cursor positioned before the first phase.
func New(pos *board.Position, loader Loader, ply int) *OrderedMoves {
	return &OrderedMoves{pos: pos, loader: loader, ply: ply, phase: Pre}
}

// Phase returns the cursor's current phase.
func (om *OrderedMoves) Phase() Phase {
	return om.phase
}

// NextPhase advances the cursor to the next non-empty phase, loading its
// segment via the Loader. It returns false once every phase has been
// visited, including ones with nothing to offer. Phases are visited in
// order exactly once each; an empty phase is skipped without being
// revisited.
func (om *OrderedMoves) NextPhase() bool {
	for om.phase < Underpromotions {
		om.phase++
		om.buf = om.buf[:0]

		switch om.phase {
		case HashTable:
			om.loader.LoadHash(om.pos, &om.buf)
		case QueenPromotions:
			om.loader.LoadPromotions(om.pos, &om.buf, true)
		case GoodCaptures:
			om.loadCaptureBand(func(score int) bool { return score > 0 })
		case EqualCaptures:
			om.loadCaptureBand(func(score int) bool { return score == 0 })
		case Killers:
			om.loader.LoadKillers(om.pos, om.ply, &om.buf)
		case Quiet:
			om.loader.LoadQuiets(om.pos, &om.buf)
		case BadCaptures:
			om.loadCaptureBand(func(score int) bool { return score < 0 })
		case Underpromotions:
			om.loader.LoadPromotions(om.pos, &om.buf, false)
		}

		if len(om.buf) > 0 {
			return true
		}
	}

	if om.phase == Underpromotions {
		om.phase = done
	}
	return false
}

// loadCaptureBand re-invokes LoadCaptures+ScoreCaptures on a fresh segment
// and keeps only the entries whose score satisfies the band predicate.
// GoodCaptures, EqualCaptures and BadCaptures each call this with a
// different predicate over the same underlying capture set.
func (om *OrderedMoves) loadCaptureBand(inBand func(score int) bool) {
	var all []Entry
	om.loader.LoadCaptures(om.pos, &all)
	om.loader.ScoreCaptures(om.pos, all)

	for _, e := range all {
		if inBand(e.Score) {
			om.buf = append(om.buf, e)
		}
	}
}

// Next returns the highest-scoring unyielded entry in the current phase's
// segment, marks it yielded, and returns (move, true). It returns
// (NoMove, false) once the segment is exhausted; the caller must call
// NextPhase again to advance.
func (om *OrderedMoves) Next() (board.Move, bool) {
	best := -1
	for i := range om.buf {
		if om.buf[i].Yielded {
			continue
		}
		if best == -1 || om.buf[i].Score > om.buf[best].Score {
			best = i
		}
	}
	if best == -1 {
		return board.NoMove, false
	}
	om.buf[best].Yielded = true
	return om.buf[best].Move, true
}
