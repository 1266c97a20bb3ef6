package order

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenfield/corvid/internal/board"
)

// stubLoader offers a fixed set of moves per phase, for exercising the
// cursor's phase/yield bookkeeping independent of any real search state.
type stubLoader struct {
	BaseLoader
	hash      board.Move
	captures  []Entry
	killers   []board.Move
	quiets    []board.Move
}

func (s stubLoader) LoadHash(pos *board.Position, buf *[]Entry) {
	if s.hash != board.NoMove {
		*buf = append(*buf, Entry{Move: s.hash, Score: 1})
	}
}

func (s stubLoader) LoadCaptures(pos *board.Position, buf *[]Entry) {
	*buf = append(*buf, s.captures...)
}

func (s stubLoader) ScoreCaptures(pos *board.Position, buf []Entry) {
	// Scores were already assigned by the test's capture fixtures.
}

func (s stubLoader) LoadKillers(pos *board.Position, ply int, buf *[]Entry) {
	for _, m := range s.killers {
		*buf = append(*buf, Entry{Move: m, Score: 5})
	}
}

func (s stubLoader) LoadQuiets(pos *board.Position, buf *[]Entry) {
	for _, m := range s.quiets {
		*buf = append(*buf, Entry{Move: m, Score: 0})
	}
}

// TestOrderedMovesAtMostOnce checks that no move is yielded twice across an
// entire walk of every phase, and that the phases are visited in order.
func TestOrderedMovesAtMostOnce(t *testing.T) {
	hashMove := board.NewMove(board.E2, board.E4)
	goodCapture := Entry{Move: board.NewMove(board.D1, board.D8), Score: 10}
	badCapture := Entry{Move: board.NewMove(board.A1, board.A8), Score: -10}
	killer := board.NewMove(board.G1, board.F3)
	quiet := board.NewMove(board.B1, board.C3)

	loader := stubLoader{
		hash:     hashMove,
		captures: []Entry{goodCapture, badCapture},
		killers:  []board.Move{killer},
		quiets:   []board.Move{quiet},
	}

	cursor := New(nil, loader, 0)

	seen := map[board.Move]bool{}
	var phasesVisited []Phase
	for cursor.NextPhase() {
		phasesVisited = append(phasesVisited, cursor.Phase())
		for {
			m, ok := cursor.Next()
			if !ok {
				break
			}
			require.Falsef(t, seen[m], "move %s yielded twice", m)
			seen[m] = true
		}
	}

	require.True(t, seen[hashMove])
	require.True(t, seen[goodCapture.Move])
	require.True(t, seen[badCapture.Move])
	require.True(t, seen[killer])
	require.True(t, seen[quiet])

	for i := 1; i < len(phasesVisited); i++ {
		require.Greater(t, phasesVisited[i], phasesVisited[i-1], "phases must be strictly increasing")
	}
}

// TestOrderedMovesHighestScoreFirst checks that within a single phase, Next
// always returns the highest-scoring unyielded entry.
func TestOrderedMovesHighestScoreFirst(t *testing.T) {
	a := board.NewMove(board.A2, board.A3)
	b := board.NewMove(board.B2, board.B3)
	c := board.NewMove(board.C2, board.C3)

	// stubLoader gives every quiet the same score; quietScoreLoader assigns
	// a distinct score to each of a, b and c.
	cursor := New(nil, quietScoreLoader{a: a, b: b, c: c}, 0)

	require.True(t, cursor.NextPhase())
	require.Equal(t, Quiet, cursor.Phase())

	first, ok := cursor.Next()
	require.True(t, ok)
	require.Equal(t, b, first) // highest score assigned below

	second, ok := cursor.Next()
	require.True(t, ok)
	require.Equal(t, a, second)

	third, ok := cursor.Next()
	require.True(t, ok)
	require.Equal(t, c, third)

	_, ok = cursor.Next()
	require.False(t, ok)
}

type quietScoreLoader struct {
	BaseLoader
	a, b, c board.Move
}

func (l quietScoreLoader) LoadQuiets(pos *board.Position, buf *[]Entry) {
	*buf = append(*buf,
		Entry{Move: l.a, Score: 5},
		Entry{Move: l.b, Score: 9},
		Entry{Move: l.c, Score: 1},
	)
}
