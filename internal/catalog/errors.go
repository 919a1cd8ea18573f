package catalog

import "errors"

// Common errors returned by the catalog package
var (
	// ErrEstimationFailed is returned when drink estimation fails for any general reason
	ErrEstimationFailed = errors.New("failed to estimate caffeine content")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the request due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during drink estimation")

	// ErrInvalidConfig is returned when the estimator configuration is invalid
	ErrInvalidConfig = errors.New("invalid estimator configuration")
)
