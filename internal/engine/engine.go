package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/jgilchrist/chess/internal/board"
)

// SearchLimits specifies constraints on a simple, non-UCI search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
}

// Difficulty represents the AI difficulty level for the simple Search entry
// point.
type Difficulty int

const (
	Easy   Difficulty = iota // ~2-3 ply, 500ms
	Medium                   // ~4-5 ply, 2s
	Hard                     // Maximum strength, 3s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 2 * time.Second},
	Hard:   {Depth: 40, MoveTime: 3 * time.Second},
}

// Engine is a single-threaded chess search engine: one transposition table,
// one searcher, iterative deepening driven by a time budget or a fixed
// depth.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher
	params   Params

	logger *zap.Logger

	difficulty Difficulty

	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table
// size in MB and the default search parameters.
func NewEngine(ttSizeMB int) *Engine {
	return NewEngineWithParams(ttSizeMB, DefaultParams())
}

// NewEngineWithParams creates a new engine with explicit tuning parameters,
// e.g. loaded via LoadParams.
func NewEngineWithParams(ttSizeMB int, params Params) *Engine {
	logger, _ := zap.NewProduction()

	tt := NewTranspositionTable(ttSizeMB)
	e := &Engine{
		tt:         tt,
		searcher:   NewSearcher(tt, params),
		params:     params,
		logger:     logger,
		difficulty: Medium,
	}

	e.searcher.OnInfo = func(info SearchInfo) {
		if e.OnInfo != nil {
			e.OnInfo(info)
		}
	}

	e.logger.Info("engine ready",
		zap.Int("tt_size_mb", ttSizeMB),
		zap.Uint64("tt_entries", tt.Size()),
	)

	return e
}

// SetDifficulty sets the engine difficulty used by Search.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// NewGame resets the transposition table and move-ordering state for a new
// game, per the UCI ucinewgame contract.
func (e *Engine) NewGame() {
	e.logger.Info("new game")
	e.Clear()
}

// Search finds the best move for the given position using the engine's
// configured difficulty.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	if limits.MoveTime > 0 {
		timer := time.AfterFunc(limits.MoveTime, e.searcher.Stop)
		defer timer.Stop()
	}

	move, _ := e.searcher.IterativeDeepen(pos, maxDepth)
	return move
}

// SearchWithUCILimits finds the best move using UCI time controls
// (wtime/btime/winc/binc, movetime, depth, infinite). limits.Nodes is not
// applied: the search is bounded only by time and depth.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits, ply int) board.Move {
	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	e.logger.Info("search start",
		zap.Stringer("side_to_move", pos.SideToMove),
		zap.Duration("optimum_time", tm.OptimumTime()),
		zap.Duration("maximum_time", tm.MaximumTime()),
	)

	stopTimer := time.AfterFunc(tm.MaximumTime(), e.searcher.Stop)
	defer stopTimer.Stop()

	move, score := e.searcher.IterativeDeepen(pos, maxDepth)

	e.logger.Info("search stop",
		zap.Duration("elapsed", tm.Elapsed()),
		zap.Uint64("nodes", e.searcher.Nodes()),
		zap.Int("score", score),
		zap.Stringer("best_move", move),
	)

	return move
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear clears the transposition table and move-ordering state.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.orderer = NewMoveOrderer()
}

// SetTTSize resizes the transposition table, discarding its contents.
func (e *Engine) SetTTSize(sizeMB int) {
	e.logger.Info("resizing transposition table", zap.Int("size_mb", sizeMB))
	e.tt = NewTranspositionTable(sizeMB)
	e.searcher.tt = e.tt
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string ("Mate in N",
// "Mated in N", or a signed pawns value).
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100
	frac := itoa(centipawns)
	if centipawns > 0 && centipawns < 10 {
		frac = "0" + frac
	}

	return sign + itoa(pawns) + "." + frac
}

// itoa avoids pulling in strconv for this one conversion, matching the
// teacher's own small helper.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
