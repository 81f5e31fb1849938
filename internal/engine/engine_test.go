package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgilchrist/chess/internal/board"
)

func TestSearchBasic(t *testing.T) {
	e := NewEngine(16)
	e.SetDifficulty(Easy)

	pos := board.NewPosition()
	move := e.Search(pos)

	require.NotEqual(t, board.NoMove, move, "expected a move from the starting position")
}

func TestSearchFixedDepth(t *testing.T) {
	tt := NewTranspositionTable(16)
	searcher := NewSearcher(tt, DefaultParams())

	pos := board.NewPosition()
	move, score := searcher.Search(pos, 4)

	require.NotEqual(t, board.NoMove, move)
	require.InDelta(t, 0, score, 100, "starting position should be close to equal")
}

func TestIterativeDeepeningReportsEachDepth(t *testing.T) {
	tt := NewTranspositionTable(16)
	searcher := NewSearcher(tt, DefaultParams())

	var depths []int
	searcher.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
	}

	pos := board.NewPosition()
	move, _ := searcher.IterativeDeepen(pos, 4)

	require.NotEqual(t, board.NoMove, move)
	require.Equal(t, []int{1, 2, 3, 4}, depths)
}

func TestSearchStopsOnTimeBudget(t *testing.T) {
	e := NewEngine(16)
	pos := board.NewPosition()

	start := time.Now()
	move := e.SearchWithUCILimits(pos, UCILimits{MoveTime: 100 * time.Millisecond}, 0)
	elapsed := time.Since(start)

	require.NotEqual(t, board.NoMove, move)
	require.Less(t, elapsed, 2*time.Second)
}

func TestFindsMateInOne(t *testing.T) {
	// White to move, Qh5xf7 is mate (the bishop on c4 guards f7).
	pos, err := board.ParseFEN("r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	require.NoError(t, err)

	tt := NewTranspositionTable(16)
	searcher := NewSearcher(tt, DefaultParams())

	move, score := searcher.Search(pos, 3)

	require.NotEqual(t, board.NoMove, move)
	require.Greater(t, score, MateScore-100)
}

func TestFindsBackRankMateAtDepthTwo(t *testing.T) {
	// Ra8# at a shallow depth exercises the non-first-move scout: if the
	// reduced-depth search underneath PVS over-reduces by even one extra
	// ply, this mate is invisible at depth 2.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	tt := NewTranspositionTable(16)
	searcher := NewSearcher(tt, DefaultParams())

	move, score := searcher.Search(pos, 2)

	require.Equal(t, "a1a8", move.String())
	require.Equal(t, MateScore-1, score)
}

func TestEngineClearResetsTranspositionTable(t *testing.T) {
	e := NewEngine(16)
	pos := board.NewPosition()
	e.Search(pos)

	e.Clear()

	_, found := e.tt.Probe(pos.Hash)
	require.False(t, found, "Clear should empty the transposition table")
}

func TestScoreToString(t *testing.T) {
	require.Equal(t, "1.0", ScoreToString(100))
	require.Equal(t, "-1.0", ScoreToString(-100))
	require.Equal(t, "Mate in 1", ScoreToString(MateScore-1))
	require.Equal(t, "Mated in 1", ScoreToString(-MateScore+1))
}

func TestSearchAcrossVariedPositions(t *testing.T) {
	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", // Italian Game
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",                                  // KP endgame
	}

	e := NewEngine(16)

	for _, fen := range positions {
		pos, err := board.ParseFEN(fen)
		require.NoError(t, err)

		e.Clear()
		move := e.SearchWithUCILimits(pos, UCILimits{MoveTime: 200 * time.Millisecond}, 0)

		if pos.GenerateLegalMoves().Len() > 0 {
			require.NotEqual(t, board.NoMove, move, "position %s should return a move", fen)
		}
	}
}
