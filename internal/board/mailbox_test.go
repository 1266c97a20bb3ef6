package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// assertMailboxAgreesWithBitboards checks the bitboard-mailbox agreement
// property: the mailbox entry at every square matches exactly one piece
// bitboard (or none), occupancy equals the union of the piece bitboards,
// and each player's bitboard equals the union of that player's piece types.
func assertMailboxAgreesWithBitboards(t *testing.T, p *Position) {
	t.Helper()

	var wantOccupied [2]Bitboard
	for pl := White; pl <= Black; pl++ {
		for pt := Pawn; pt <= King; pt++ {
			wantOccupied[pl] |= p.Pieces[pl][pt]
		}
	}
	require.Equal(t, wantOccupied[White], p.Occupied[White])
	require.Equal(t, wantOccupied[Black], p.Occupied[Black])
	require.Equal(t, wantOccupied[White]|wantOccupied[Black], p.AllOccupied)

	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		var fromBitboards Piece = NoPiece
		for pl := White; pl <= Black; pl++ {
			for pt := Pawn; pt <= King; pt++ {
				if p.Pieces[pl][pt]&bb != 0 {
					fromBitboards = NewPiece(pt, pl)
				}
			}
		}

		require.Equalf(t, fromBitboards, p.Board[sq], "mailbox disagrees with bitboards at %s", sq)
		if fromBitboards == NoPiece {
			require.Zerof(t, p.AllOccupied&bb, "occupied bit set at empty square %s", sq)
		} else {
			require.NotZerof(t, p.AllOccupied&bb, "occupied bit clear at occupied square %s", sq)
		}
	}
}

// TestMailboxAgreesWithBitboardsAfterMakeUnmake walks every legal move from
// several positions, checking the mailbox-bitboard agreement property after
// every make and every unmake.
func TestMailboxAgreesWithBitboardsAfterMakeUnmake(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)
		assertMailboxAgreesWithBitboards(t, pos)

		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)

			pos.MakeMove(m)
			assertMailboxAgreesWithBitboards(t, pos)

			pos.UnmakeMove()
			assertMailboxAgreesWithBitboards(t, pos)
		}
	}
}
