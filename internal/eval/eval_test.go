package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenfield/corvid/internal/board"
)

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	pos := board.NewPosition()
	require.Zero(t, Evaluate(pos))
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	// White is missing its queen: score from White's (the side to move's)
	// perspective should be clearly negative.
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1")
	require.NoError(t, err)
	require.Negative(t, Evaluate(pos))
}
