// Package service contains the application-specific use cases of the
// caffeine tracker. It orchestrates interactions between domain objects
// and the repositories defined in internal/store to fulfill application
// features.
//
// Services receive their dependencies through constructor injection and
// expose interfaces to the delivery layer, so HTTP handlers never touch
// storage or domain internals directly. Expected failures surface as
// sentinel errors from the store and domain packages; unexpected ones
// are wrapped in service-specific error types that preserve the cause
// for errors.Is and errors.As.
package service
