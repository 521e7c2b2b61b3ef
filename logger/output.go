package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Report location, summary counts, errors
//	1 (-v)      - + Repository progress, pipeline file counts, skipped repositories
//	2 (-vv)     - + Each scanned file, settings loaded, timing
//	3 (-vvv)    - + Every task sighting and its classification

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Report summary
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress   // "Analyzing repo 3/12"
	OutputRepoStatus // Pipeline files found, repository skipped

	// Level 2 (-vv) - Detailed
	OutputFileScan // Each pipeline file scanned
	OutputConfig   // Settings and registry loaded
	OutputTiming   // Per-repository duration

	// Level 3 (-vvv) - Trace
	OutputSightings // Each task declaration found
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress:   VerbosityInfo,
	OutputRepoStatus: VerbosityInfo,

	OutputFileScan: VerbosityDebug,
	OutputConfig:   VerbosityDebug,
	OutputTiming:   VerbosityDebug,

	OutputSightings: VerbosityTrace,
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
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputUserStatus: "status",
	OutputProgress:   "progress",
	OutputRepoStatus: "repo-status",
	OutputFileScan:   "file-scan",
	OutputConfig:     "config",
	OutputTiming:     "timing",
	OutputSightings:  "sightings",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
