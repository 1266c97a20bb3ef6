package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: White Ka1/Ra8, Black Kh8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)

	require.True(t, pos.InCheck())
	require.False(t, pos.HasLegalMoves())
	require.True(t, pos.IsCheckmate())
	require.False(t, pos.IsStalemate())
}

func TestNotCheckmate(t *testing.T) {
	// Black king can capture the undefended rook: not checkmate.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)

	require.True(t, pos.InCheck())
	require.False(t, pos.IsCheckmate())
}
