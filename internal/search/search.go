// Package search implements the fixed-depth alpha-beta/negamax search
// driver: move ordering via internal/order, a transposition table,
// quiescence search, and a time manager. The iterative-deepening loop that
// calls Search once per depth lives in internal/engine.
package search

import (
	"sync/atomic"

	"github.com/wrenfield/corvid/internal/board"
	"github.com/wrenfield/corvid/internal/eval"
	"github.com/wrenfield/corvid/internal/order"
)

// Search-wide constants.
const (
	Infinity  = eval.Infinity
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation collected during the last search.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs alpha-beta search over a Position, reusing a
// transposition table and a Scorer (move ordering state) across calls.
type Searcher struct {
	pos *board.Position
	tt  *TranspositionTable
	sc  *Scorer

	nodes    uint64
	stopFlag atomic.Bool

	pv PVTable
}

// NewSearcher creates a new searcher sharing the given transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt: tt,
		sc: NewScorer(),
	}
}

// Stop signals the search to return as soon as it next checks.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset clears per-search state (not the transposition table, which
// outlives a single search and is cleared separately if desired).
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.sc.Clear()
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search runs a fixed-depth negamax search from pos and returns the best
// move found along with its score, from the side-to-move's perspective.
// pos is copied; the caller's Position is left untouched. Search does not
// call Reset: the stop flag, node count and killer/history tables carry
// over between calls, so a Stop received during one depth of an
// iterative-deepening loop also ends the later ones.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.tt.NewSearch()

	score := s.negamax(depth, 0, -Infinity, Infinity)

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}
	return bestMove, score
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// negamax implements negamax with alpha-beta pruning, transposition-table
// probing, and staged move ordering.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 && s.isDraw() {
		return 0
	}

	var ttMove board.Move
	if entry, found := s.tt.Probe(s.pos.Hash); found {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	moves := s.pos.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	s.sc.PrepareNode(s.pos, moves, ttMove, ply)
	cursor := order.New(s.pos, s.sc, ply)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for cursor.NextPhase() {
		for {
			move, ok := cursor.Next()
			if !ok {
				break
			}

			emitted := s.sc.emittedHash
			s.pos.MakeMove(move)
			score := -s.negamax(depth-1, ply+1, -beta, -alpha)
			s.pos.UnmakeMove()
			// The child pointed the shared Scorer at its own node; point it
			// back here before the cursor loads this node's next phase.
			s.sc.PrepareNode(s.pos, moves, ttMove, ply)
			s.sc.emittedHash = emitted

			if s.stopFlag.Load() {
				return 0
			}

			if score > bestScore {
				bestScore = score
				bestMove = move

				if score > alpha {
					alpha = score
					flag = TTExact

					s.pv.moves[ply][ply] = move
					for j := ply + 1; j < s.pv.length[ply+1]; j++ {
						s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
					}
					s.pv.length[ply] = s.pv.length[ply+1]
				}
			}

			if score >= beta {
				s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
				if !move.IsCapture(s.pos) && !move.IsPromotion() {
					s.sc.UpdateKillers(move, ply)
					s.sc.UpdateHistory(move, depth, true)
				}
				return score
			}
		}
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// quiescence searches captures and promotions only, to avoid the horizon
// effect at the end of the main search.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	if ply >= MaxPly {
		return eval.Evaluate(s.pos)
	}
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	standPat := eval.Evaluate(s.pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	const queenValue = 900
	if standPat+queenValue < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	s.sc.PrepareNode(s.pos, moves, board.NoMove, ply)

	var entries []order.Entry
	s.sc.LoadCaptures(s.pos, &entries)
	s.sc.ScoreCaptures(s.pos, entries)
	s.sc.LoadPromotions(s.pos, &entries, true)
	s.sc.LoadPromotions(s.pos, &entries, false)

	inCheck := s.pos.InCheck()

	for {
		best := -1
		for i := range entries {
			if entries[i].Score == minInt {
				continue
			}
			if best == -1 || entries[i].Score > entries[best].Score {
				best = i
			}
		}
		if best == -1 {
			break
		}
		move := entries[best].Move
		entries[best].Score = minInt

		if !inCheck {
			captureValue := 0
			if move.IsEnPassant() {
				captureValue = board.PieceValue[board.Pawn]
			} else if captured := s.pos.PieceAt(move.To()); captured != board.NoPiece {
				captureValue = board.PieceValue[captured.Type()]
			}
			if move.IsPromotion() {
				captureValue += board.PieceValue[board.Queen] - board.PieceValue[board.Pawn]
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
			if !move.IsPromotion() && s.pos.SEE(move) < 0 {
				continue
			}
		}

		s.pos.MakeMove(move)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

const minInt = -1 << 31

// isDraw reports the fifty-move rule, insufficient material, and a single
// repeated position within the fifty-move window. A single repetition is
// treated as a draw for search purposes, which is conservative but cheap:
// it only needs Position.History, not a separate game-level ledger.
func (s *Searcher) isDraw() bool {
	p := s.pos
	if p.HalfMoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}

	n := len(p.History)
	limit := p.HalfMoveClock
	if limit > n {
		limit = n
	}
	for back := 2; back <= limit; back += 2 {
		idx := n - back
		if idx < 0 {
			break
		}
		if p.History[idx].PriorHash == p.Hash {
			return true
		}
	}
	return false
}
