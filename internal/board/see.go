package board

// SEE performs a static exchange evaluation of the capture m: the net
// material gained by the side to move after every attacker on the target
// square trades in ascending order of value, assuming both sides always
// recapture with their least valuable attacker. It works off a VBoard
// snapshot rather than Position so the search can call it on hot paths
// without touching Zobrist hashes, castling rights, or undo history.
//
// This does not reveal x-ray attackers uncovered behind a removed piece
// (e.g. a rook behind a rook on the same file): it is a conservative
// approximation of the full swap algorithm, adequate for quiescence
// pruning decisions.
func (p *Position) SEE(m Move) int {
	to := m.To()
	attackerSq := m.From()
	attackerPT := p.PieceAt(attackerSq).Type()

	var victimPT PieceType
	switch {
	case m.IsEnPassant():
		victimPT = Pawn
	default:
		victimPT = p.PieceAt(to).Type()
	}
	if victimPT == NoPieceType {
		return 0
	}

	vb := NewVBoard(p)
	occ := vb.AllOccupied &^ SquareBB(attackerSq)
	side := p.SideToMove.Other()

	gain := []int{PieceValue[victimPT]}
	attackerValue := PieceValue[attackerPT]

	for {
		attackers := (p.AttackersByColor(to, side, occ)) & occ
		if attackers == 0 {
			break
		}

		leastSq, leastPT, found := leastValuableAttacker(&vb, side, attackers)
		if !found {
			break
		}

		gain = append(gain, attackerValue-gain[len(gain)-1])
		occ &^= SquareBB(leastSq)
		attackerValue = PieceValue[leastPT]
		side = side.Other()
	}

	for i := len(gain) - 1; i > 0; i-- {
		if -gain[i] < gain[i-1] {
			gain[i-1] = -gain[i]
		}
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest piece of side among candidates.
func leastValuableAttacker(vb *VBoard, side Player, candidates Bitboard) (Square, PieceType, bool) {
	for pt := Pawn; pt <= King; pt++ {
		bb := vb.Pieces[side][pt] & candidates
		if bb != 0 {
			return bb.LSB(), pt, true
		}
	}
	return NoSquare, NoPieceType, false
}
