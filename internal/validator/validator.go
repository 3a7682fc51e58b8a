// Package validator provides a Validator type for accumulating field-level
// validation errors and returning them as a map.
package validator

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// The first failure for a field is the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error for key with message only when ok is false.
//
//	v.Check(input.Username != "", "username", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}
