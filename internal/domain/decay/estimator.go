package decay

import (
	"math"
	"time"

	"github.com/cafflog/cafflog-api/internal/domain"
)

// resolveDoseTime converts a dose entry's month/day and time-of-day into an
// absolute timestamp relative to the reference instant.
//
// Dose entries carry no year. A candidate timestamp is built from the
// reference instant's calendar year combined with the entry's month, day,
// and time-of-day, in the reference instant's location. If the candidate is
// strictly later than the reference instant it is rolled back by exactly one
// year, so an entry logged on Dec 31 and viewed on Jan 1 counts as last
// year's dose rather than a dose eleven months in the future.
//
// Parameters:
//   - doseDate: calendar month and day in "MM/DD" form
//   - doseTime: wall-clock time of day in "HH:MM" form
//   - now: the reference instant supplying the year and location
//
// Returns:
//   - The resolved timestamp, or an error when either field fails to parse
//
// No correction beyond the single-year rollback is attempted. An entry more
// than a year stale resolves to a timestamp within the last year, which is
// numerically harmless because its contribution has decayed to nothing by
// then.
func resolveDoseTime(doseDate, doseTime string, now time.Time) (time.Time, error) {
	d, err := time.Parse(domain.DoseDateLayout, doseDate)
	if err != nil {
		return time.Time{}, err
	}

	tod, err := time.Parse(domain.DoseTimeLayout, doseTime)
	if err != nil {
		return time.Time{}, err
	}

	candidate := time.Date(
		now.Year(),
		d.Month(),
		d.Day(),
		tod.Hour(),
		tod.Minute(),
		0, 0,
		now.Location(),
	)

	// A candidate in the future means the dose was taken last year
	if candidate.After(now) {
		candidate = candidate.AddDate(-1, 0, 0)
	}

	return candidate, nil
}

// contribution computes the residual milligrams a single dose contributes at
// the reference instant.
//
// The model is continuous first-order exponential decay: after each
// half-life the remaining amount halves, so a dose of m milligrams taken h
// hours ago contributes m * 0.5^(h/halfLife).
//
// Parameters:
//   - amountMg: milligrams of caffeine ingested
//   - elapsed: time between the dose and the reference instant
//   - params: configuration parameters holding the half-life
//
// Returns:
//   - The remaining milligrams, or zero when elapsed is negative
//
// A negative elapsed time should not occur after year adjustment but is
// guarded anyway. Zero and negative amounts pass through arithmetically;
// clamping happens on the summed total, not per dose.
func contribution(amountMg float64, elapsed time.Duration, params *Params) float64 {
	if elapsed < 0 {
		return 0
	}

	halfLives := elapsed.Hours() / params.HalfLife.Hours()
	return amountMg * math.Pow(0.5, halfLives)
}

// estimateResidual sums the residual contributions of every entry at the
// reference instant.
//
// The function is pure and deterministic: identical (entries, now) inputs
// always yield identical output, with no I/O and no ambient state.
//
// Parameters:
//   - entries: the dose entries to aggregate; nil and empty are both valid
//   - now: the reference instant
//   - params: configuration parameters for the decay model
//
// Returns:
//   - Total residual caffeine in milligrams, clamped to be non-negative
//
// Entries whose date or time fails to parse are skipped; one bad record must
// not blank out the whole aggregate. The final clamp guards against
// floating-point underflow and against negative amounts summing below zero.
func estimateResidual(entries []domain.DoseEntry, now time.Time, params *Params) float64 {
	var total float64

	for _, entry := range entries {
		takenAt, err := resolveDoseTime(entry.DoseDate, entry.DoseTime, now)
		if err != nil {
			continue
		}

		total += contribution(entry.AmountMg, now.Sub(takenAt), params)
	}

	if total < 0 {
		total = 0
	}

	return total
}
