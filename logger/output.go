package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Generated destinations, errors with hints, check status
//	1 (-v)      - + Schema loading, per-destination progress
//	2 (-vv)     - + Per-entity emission, timing, resolved config
//	3 (-vvv)    - + Raw emitted text before formatting

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Generated destinations
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final check / generate status

	// Level 1 (-v) - Informational
	OutputProgress // Per-destination progress
	OutputSchema   // Schema files and packages loaded

	// Level 2 (-vv) - Detailed
	OutputEntities // Per-entity emission
	OutputTiming   // Destination timing
	OutputConfig   // Resolved config values

	// Level 3 (-vvv) - Full dump
	OutputEmittedText // Raw text before the formatter runs
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputSchema:   VerbosityInfo,

	OutputEntities: VerbosityDebug,
	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,

	OutputEmittedText: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputErrors:      "errors",
	OutputUserStatus:  "status",
	OutputProgress:    "progress",
	OutputSchema:      "schema",
	OutputEntities:    "entities",
	OutputTiming:      "timing",
	OutputConfig:      "config",
	OutputEmittedText: "emitted-text",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
