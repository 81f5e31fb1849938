package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard correctness oracle for move generation: the counts it
// produces for well-known positions are documented and must match exactly.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// PerftDivide returns, for each legal root move, the perft count of the
// subtree it leads to. Used to localise a move generator discrepancy
// against a reference engine one root move at a time.
func PerftDivide(p *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		result[m.String()] = Perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return result
}
