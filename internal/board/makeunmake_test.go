package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestMakeUnmakeIdentity makes and unmakes every legal move (one ply) from
// several positions and checks that UnmakeMove restores the Position to a value
// identical to before MakeMove, field for field.
func TestMakeUnmakeIdentity(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)

		before := pos.Copy()
		moves := pos.GenerateLegalMoves()

		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			pos.MakeMove(m)
			pos.UnmakeMove()

			diff := cmp.Diff(before, pos)
			if diff != "" {
				t.Fatalf("position not restored after %s (mismatch -want +got):\n%s", m, diff)
			}
		}
	}
}

// TestFENRoundTrip checks that parsing and re-serializing a FEN is stable.
func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)
		require.Equal(t, fen, pos.ToFEN())
	}
}
