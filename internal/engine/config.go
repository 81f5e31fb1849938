package engine

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Params holds the tunable search constants. Names match the prose used to
// describe each pruning technique so a reader can cross-reference the two
// directly. Defaults are the values exercised by the original search this
// engine's pruning is grounded on; they can be overridden by loading a TOML
// file with LoadParams.
type Params struct {
	ReverseFutilityPruneDepth       int `toml:"reverse_futility_prune_depth"`
	ReverseFutilityPruneMarginPerPly int `toml:"reverse_futility_prune_margin_per_ply"`

	NullMovePruningDepthLimit     int `toml:"null_move_pruning_depth_limit"`
	NullMovePruningDepthReduction int `toml:"null_move_pruning_depth_reduction"`

	LMRDepth         int `toml:"lmr_depth"`
	LMRMoveThreshold int `toml:"lmr_move_threshold"`

	FutilityPruneDepth        int `toml:"futility_prune_depth"`
	FutilityPruneMaxMoveValue int `toml:"futility_prune_max_move_value"`

	// AspirationWindow is the initial +/- centipawn margin placed around the
	// previous iteration's score when starting each iterative-deepening pass
	// from depth 4 on (shallower passes use a full window). On a fail-low or
	// fail-high the failing bound is moved out by the window, which then
	// doubles, until that bound reaches +/-Infinity.
	AspirationWindow int `toml:"aspiration_window"`

	// DefaultTTSizeMB is the transposition table size used when the UCI
	// layer has not yet received a setoption Hash command.
	DefaultTTSizeMB int `toml:"default_tt_size_mb"`
}

// DefaultParams returns the tuning constants this engine's pruning is
// grounded on.
func DefaultParams() Params {
	return Params{
		ReverseFutilityPruneDepth:        6,
		ReverseFutilityPruneMarginPerPly: 80,

		NullMovePruningDepthLimit:     3,
		NullMovePruningDepthReduction: 2,

		LMRDepth:         3,
		LMRMoveThreshold: 4,

		FutilityPruneDepth:        5,
		FutilityPruneMaxMoveValue: 150,

		AspirationWindow: 25,

		DefaultTTSizeMB: 64,
	}
}

// LoadParams overlays path's TOML contents onto DefaultParams. A missing
// file is not an error: it just leaves the defaults in place, matching the
// optional-config convention.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return params, nil
	}

	if _, err := toml.DecodeFile(path, &params); err != nil {
		return Params{}, err
	}

	return params, nil
}
