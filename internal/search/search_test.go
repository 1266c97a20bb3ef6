package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenfield/corvid/internal/board"
)

func newSearcher() *Searcher {
	tt := NewTranspositionTable(1)
	return NewSearcher(tt)
}

// TestSearchFindsLegalMoveFromStartpos is a smoke test: a shallow search
// from the starting position must return one of the 20 legal first moves.
func TestSearchFindsLegalMoveFromStartpos(t *testing.T) {
	pos := board.NewPosition()
	s := newSearcher()

	move, _ := s.Search(pos, 3)
	require.NotEqual(t, board.NoMove, move)

	legal := pos.GenerateLegalMoves()
	require.True(t, legal.Contains(move), "search returned a move not in the legal move list")
}

// TestSearchFindsMateInOne checks the back-rank mate Qd8# is found and
// scored as a mate.
func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: Qh4-d8 is mate (Black king boxed in on g8).
	pos, err := board.ParseFEN("6k1/5ppp/8/8/7Q/8/8/6K1 w - - 0 1")
	require.NoError(t, err)

	s := newSearcher()
	move, score := s.Search(pos, 3)

	require.Equal(t, board.NewMove(board.H4, board.D8), move)
	require.Greater(t, score, MateScore-10)
}

// TestSearchLeavesPositionUnchanged checks that Search does not mutate the
// caller's Position (it must operate on its own copy).
func TestSearchLeavesPositionUnchanged(t *testing.T) {
	pos := board.NewPosition()
	before := pos.Copy()

	s := newSearcher()
	s.Search(pos, 3)

	require.Equal(t, before.Hash, pos.Hash)
	require.Empty(t, pos.History)
}
