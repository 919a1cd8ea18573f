package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for request structs that use
// only built-in validation tags. Handlers with custom tags register them
// on their own instance instead.
var validate = validator.New()

// DecodeJSON decodes the request body into the given target. The target
// must be a pointer.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates a request struct against its validation tags.
// Returns a validator.ValidationErrors when any field fails.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
