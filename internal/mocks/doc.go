// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// exposes function fields (CreateFn, ValidateTokenFn, ...) so a test can
// override exactly the behavior it cares about; methods fall back to
// simple in-memory defaults when no function is set.
//
// When adding a new mock to this package:
//  1. Create a file named after the interface being mocked
//  2. Implement the mock struct with function fields for each method
//  3. Keep the default behavior useful for the common happy path
package mocks
