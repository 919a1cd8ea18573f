// Package catalog provides the interface for estimating the caffeine
// content of drinks described in free text. It abstracts the details of
// LLM API integration (Gemini), so the application can turn "a double
// espresso" into milligrams without coupling to a specific external
// service.
package catalog
