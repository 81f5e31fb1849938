package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/jgilchrist/chess/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// lmrTable[depth][moveCount] gives the total search-depth reduction for a
// late, quiet move searched with a null window: the move is searched at
// depth-lmrTable[depth][moveCount], replacing (not adding to) the normal
// one-ply decrement. The teacher's own reduction table divided by an extra
// factor of 1024 that left it producing a reduction of 0 at almost every
// realistic depth/move count; this uses the standard two-logarithm formula
// without that stray divisor.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			r := 0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int(r)
		}
	}
}

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// SearchInfo is a progress report pushed to the caller after each
// completed iterative-deepening pass.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int
}

// Searcher performs a single-threaded iterative-deepening alpha-beta
// search with principal variation search, move ordering, a transposition
// table and standard depth-reducing heuristics.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer
	params  Params

	nodes     uint64
	stopFlag  atomic.Bool
	startTime time.Time

	pv PVTable

	undoStack [MaxPly]board.UndoInfo

	// OnInfo, if set, is called after every completed depth of iterative
	// deepening. It must be safe to call from the search goroutine.
	OnInfo func(SearchInfo)
}

// NewSearcher creates a new searcher using the given tuning parameters.
func NewSearcher(tt *TranspositionTable, params Params) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
		params:  params,
	}
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.orderer.Clear()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Stopped reports whether the search was asked to stop.
func (s *Searcher) Stopped() bool {
	return s.stopFlag.Load()
}

// IterativeDeepen searches pos from depth 1 up to maxDepth, reporting
// progress via OnInfo after each completed depth, and returns the best
// move and score found at the deepest depth that finished before the
// search was stopped.
func (s *Searcher) IterativeDeepen(pos *board.Position, maxDepth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()
	s.tt.NewSearch()
	s.startTime = time.Now()

	var bestMove board.Move
	var bestScore int

	prevScore := 0

	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -Infinity, Infinity
		window := s.params.AspirationWindow

		if depth >= 4 {
			alpha = prevScore - window
			beta = prevScore + window
		}

		var score int
		for {
			score = s.negamax(depth, 0, alpha, beta, true)

			if s.stopFlag.Load() {
				break
			}

			if score <= alpha {
				alpha -= window
				window *= 2
				if alpha < -Infinity {
					alpha = -Infinity
				}
				continue
			}
			if score >= beta {
				beta += window
				window *= 2
				if beta > Infinity {
					beta = Infinity
				}
				continue
			}
			break
		}

		if s.stopFlag.Load() && depth > 1 {
			break
		}

		prevScore = score
		bestScore = score

		if s.pv.length[0] > 0 {
			bestMove = s.pv.moves[0][0]
		}

		if s.OnInfo != nil {
			s.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    s.nodes,
				Time:     time.Since(s.startTime),
				PV:       s.GetPV(),
				HashFull: s.tt.HashFull(),
			})
		}

		if s.stopFlag.Load() {
			break
		}
	}

	return bestMove, bestScore
}

// Search runs a single fixed-depth search. Exposed for tests and for
// callers that don't need iterative deepening (e.g. perft-adjacent tools).
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()
	s.tt.NewSearch()

	score := s.negamax(depth, 0, -Infinity, Infinity, true)

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}

	return bestMove, score
}

// negamax implements principal variation search with a transposition
// table, reverse futility pruning, null move pruning, late move
// reductions and futility pruning.
func (s *Searcher) negamax(depth, ply int, alpha, beta int, isPV bool) int {
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}

	isRoot := ply == 0
	s.nodes++
	s.pv.length[ply] = ply

	if !isRoot && (s.pos.IsRepeated() || s.pos.HalfMoveClock >= 100 || s.pos.IsInsufficientMaterial()) {
		return 0
	}

	inCheck := s.pos.InCheck()
	if inCheck && depth < MaxPly-1 {
		depth++
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		if !isRoot && !isPV && int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTUpperBound:
				if score <= alpha {
					return score
				}
			case TTLowerBound:
				if score >= beta {
					return score
				}
			}
		}
	}

	staticEval := Evaluate(s.pos)

	if !isRoot && !isPV && !inCheck {
		if depth <= s.params.ReverseFutilityPruneDepth &&
			staticEval-s.params.ReverseFutilityPruneMarginPerPly*depth > beta {
			return beta
		}

		if depth >= s.params.NullMovePruningDepthLimit &&
			staticEval >= beta &&
			s.pos.HasNonPawnMaterial() {
			R := s.params.NullMovePruningDepthReduction
			nullUndo := s.pos.MakeNullMove()
			nullScore := -s.negamax(depth-1-R, ply+1, -beta, -beta+1, false)
			s.pos.UnmakeNullMove(nullUndo)

			if s.stopFlag.Load() {
				return 0
			}
			if nullScore >= beta {
				return nullScore
			}
		}
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	legalMoves := 0

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		isCapture := move.IsCapture(s.pos)
		isPromotion := move.IsPromotion()

		if legalMoves > 0 && !isPV && !isCapture && !isPromotion && !inCheck &&
			depth <= s.params.FutilityPruneDepth &&
			staticEval+s.params.FutilityPruneMaxMoveValue < alpha {
			continue
		}

		s.undoStack[ply] = s.pos.MakeMove(move)
		if !s.undoStack[ply].Valid {
			s.pos.UnmakeMove(move, s.undoStack[ply])
			continue
		}
		legalMoves++

		var score int
		if legalMoves == 1 {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, isPV)
		} else {
			reduction := 1
			if depth >= s.params.LMRDepth &&
				legalMoves >= s.params.LMRMoveThreshold &&
				!inCheck && !isCapture && !isPromotion {
				reduction = lmrTable[clampIndex(depth)][clampIndex(legalMoves)]
				if reduction < 1 {
					reduction = 1
				}
			}
			reducedDepth := depth - reduction
			if reducedDepth < 0 {
				reducedDepth = 0
			}

			score = -s.negamax(reducedDepth, ply+1, -alpha-1, -alpha, false)

			if score > alpha && score < beta {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, true)
			}
		}

		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			flag = TTLowerBound
			if !isCapture {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(s.pos.SideToMove, move, depth, true)
			}
			break
		}
	}

	if legalMoves == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

func clampIndex(n int) int {
	if n < 0 {
		return 0
	}
	if n > 63 {
		return 63
	}
	return n
}

// quiescence searches only captures and promotions to avoid the horizon
// effect. It never writes to the transposition table and never applies
// LMR or null move pruning.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	const maxQuiescencePly = 32
	if ply >= MaxPly || ply > maxQuiescencePly {
		return Evaluate(s.pos)
	}

	if s.stopFlag.Load() {
		return 0
	}

	s.nodes++

	standPat := Evaluate(s.pos)

	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	bigDelta := QueenValue
	if standPat+bigDelta < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !s.pos.InCheck() {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else if capturedPiece := s.pos.PieceAt(move.To()); capturedPiece != board.NoPiece {
				captureValue = pieceValues[capturedPiece.Type()]
			}
			if move.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		if !undo.Valid {
			s.pos.UnmakeMove(move, undo)
			continue
		}

		score := -s.quiescence(ply+1, -beta, -alpha)

		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
