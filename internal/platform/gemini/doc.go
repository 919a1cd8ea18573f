// Package gemini provides an implementation of the catalog.DrinkEstimator
// interface that uses Google's Gemini API to estimate the caffeine content
// of drinks described in free text.
//
// This package is an infrastructure adapter: it translates between the
// application's domain models and the Gemini API without exposing the
// details of the external service to the core application. The estimator
// asks the model for a strict JSON answer, validates it, and retries
// transient API failures with exponential backoff and jitter. Permanent
// failures (safety blocks, unparseable answers) are returned immediately
// as catalog sentinel errors.
package gemini
