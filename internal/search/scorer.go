package search

import (
	"github.com/wrenfield/corvid/internal/board"
	"github.com/wrenfield/corvid/internal/order"
)

// Move ordering score bands. Captures are bucketed into good/equal/bad by
// the sign of their static exchange evaluation and ordered within a band
// by MVV-LVA; the absolute magnitudes only need to sort correctly within a
// band, not against the other phases.
const (
	TTMoveScore  = 10000000
	KillerScore1 = 900000
	KillerScore2 = 800000
)

// mvvLva are Most Valuable Victim / Least Valuable Attacker scores: higher
// sorts first. Indexed [victim][attacker].
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// Scorer is the search driver's order.Loader: it feeds OrderedMoves from
// the pseudo-legal move list of whatever node PrepareNode was last called
// for, tracking the killer and history tables across the whole search.
type Scorer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int

	moves       *board.MoveList
	ttMove      board.Move
	ply         int
	emittedHash board.Move
}

// NewScorer creates an empty Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Clear resets killer and history tables for a new search.
func (s *Scorer) Clear() {
	for i := range s.killers {
		s.killers[i][0] = board.NoMove
		s.killers[i][1] = board.NoMove
	}
	for i := range s.history {
		for j := range s.history[i] {
			s.history[i][j] = 0
		}
	}
}

// PrepareNode points the Scorer at the node currently being searched. It
// must be called once before driving an order.OrderedMoves cursor over
// this node's moves.
func (s *Scorer) PrepareNode(pos *board.Position, moves *board.MoveList, ttMove board.Move, ply int) {
	s.moves = moves
	s.ttMove = ttMove
	s.ply = ply
	s.emittedHash = board.NoMove
}

// LoadHash implements order.Loader.
func (s *Scorer) LoadHash(pos *board.Position, buf *[]order.Entry) {
	if s.ttMove == board.NoMove || !s.moves.Contains(s.ttMove) {
		return
	}
	*buf = append(*buf, order.Entry{Move: s.ttMove, Score: TTMoveScore})
	s.emittedHash = s.ttMove
}

// LoadPromotions implements order.Loader.
func (s *Scorer) LoadPromotions(pos *board.Position, buf *[]order.Entry, queenOnly bool) {
	for i := 0; i < s.moves.Len(); i++ {
		m := s.moves.Get(i)
		if m == s.emittedHash || !m.IsPromotion() {
			continue
		}
		isQueen := m.Promotion() == board.Queen
		if isQueen != queenOnly {
			continue
		}
		*buf = append(*buf, order.Entry{Move: m, Score: int(m.Promotion())})
	}
}

// LoadCaptures implements order.Loader: appends every non-promotion capture,
// unscored (Score is filled in by ScoreCaptures).
func (s *Scorer) LoadCaptures(pos *board.Position, buf *[]order.Entry) {
	for i := 0; i < s.moves.Len(); i++ {
		m := s.moves.Get(i)
		if m == s.emittedHash || m.IsPromotion() || !m.IsCapture(pos) {
			continue
		}
		*buf = append(*buf, order.Entry{Move: m})
	}
}

// ScoreCaptures implements order.Loader: the sign comes from the static
// exchange evaluation (positive for a winning trade, zero for an even one,
// negative for a loss) and the magnitude from MVV-LVA.
func (s *Scorer) ScoreCaptures(pos *board.Position, buf []order.Entry) {
	for i := range buf {
		m := buf[i].Move
		attackerPiece := pos.PieceAt(m.From())
		attacker := attackerPiece.Type()

		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			victim = pos.PieceAt(m.To()).Type()
		}

		diff := pos.SEE(m)
		switch {
		case diff > 0:
			buf[i].Score = mvvLva[victim][attacker]
		case diff < 0:
			buf[i].Score = -mvvLva[victim][attacker]
		default:
			buf[i].Score = 0
		}
	}
}

// LoadKillers implements order.Loader.
func (s *Scorer) LoadKillers(pos *board.Position, ply int, buf *[]order.Entry) {
	for slot, km := range s.killers[ply] {
		if km == board.NoMove || km == s.emittedHash || !s.moves.Contains(km) {
			continue
		}
		if km.IsCapture(pos) || km.IsPromotion() {
			continue
		}
		score := KillerScore2
		if slot == 0 {
			score = KillerScore1
		}
		*buf = append(*buf, order.Entry{Move: km, Score: score})
	}
}

// LoadQuiets implements order.Loader: every remaining quiet move, scored by
// the history heuristic.
func (s *Scorer) LoadQuiets(pos *board.Position, buf *[]order.Entry) {
	for i := 0; i < s.moves.Len(); i++ {
		m := s.moves.Get(i)
		if m == s.emittedHash || m.IsPromotion() || m.IsCapture(pos) {
			continue
		}
		if m == s.killers[s.ply][0] || m == s.killers[s.ply][1] {
			continue
		}
		*buf = append(*buf, order.Entry{Move: m, Score: s.history[m.From()][m.To()]})
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff at ply.
func (s *Scorer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if s.killers[ply][0] == m {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = m
}

// UpdateHistory adjusts the history score for a quiet move that caused (or
// failed to cause) a beta cutoff, aging the table if it grows too large.
func (s *Scorer) UpdateHistory(m board.Move, depth int, isGood bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth

	if isGood {
		s.history[from][to] += bonus
		if s.history[from][to] > 400000 {
			for i := range s.history {
				for j := range s.history[i] {
					s.history[i][j] /= 2
				}
			}
		}
	} else {
		s.history[from][to] -= bonus
		if s.history[from][to] < -400000 {
			s.history[from][to] = -400000
		}
	}
}
