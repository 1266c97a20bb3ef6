package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSEEWinningCapture(t *testing.T) {
	// White rook takes an undefended black knight: simple material win.
	pos, err := ParseFEN("4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)

	m := NewMove(D1, D5)
	require.Equal(t, PieceValue[Knight], pos.SEE(m))
}

func TestSEELosingCapture(t *testing.T) {
	// White queen takes a pawn defended by a knight: the queen is lost for
	// the pawn, a clearly losing exchange.
	pos, err := ParseFEN("4k3/8/5n2/3p4/3Q4/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := NewMove(D4, D5)
	require.Negative(t, pos.SEE(m))
}

func TestSEENonCaptureIsZero(t *testing.T) {
	pos := NewPosition()
	m := NewMove(E2, E4)
	require.Zero(t, pos.SEE(m))
}
