package decay

// Level represents the ordinal severity of a residual caffeine amount
type Level string

// Possible severity levels, from highest to lowest. The values are the
// user-facing labels and are serialized verbatim.
const (
	LevelVeryHigh Level = "Very High"
	LevelHigh     Level = "High"
	LevelModerate Level = "Moderate"
	LevelLow      Level = "Low"
	LevelMinimal  Level = "Minimal"
)

// levelFor maps a residual amount to its severity level.
//
// Thresholds are evaluated in descending order with a strict greater-than
// comparison; the first match wins. A residual sitting exactly on a
// threshold therefore classifies at the lower level (100.0 mg is Moderate,
// not High).
//
// Parameters:
//   - residualMg: total residual caffeine in milligrams
//   - params: configuration parameters holding the threshold table
//
// Returns:
//   - The matched severity level, or LevelMinimal when no threshold is exceeded
func levelFor(residualMg float64, params *Params) Level {
	for _, threshold := range params.Thresholds {
		if residualMg > threshold.MinExclusiveMg {
			return threshold.Level
		}
	}
	return LevelMinimal
}
