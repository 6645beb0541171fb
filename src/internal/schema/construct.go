package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of constructing a canonical record: the record
// plus any validation problems captured along the way. Errors is empty
// if and only if the record fully validated.
type Result struct {
	Item   Item
	Errors []string
}

// Valid reports whether the record validated without problems.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// ValidationError is the fatal outcome of strict construction.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "schema validation: " + strings.Join(e.Problems, "; ")
}

// Construct builds a canonical record from a raw body.
//
// When strict is true a decoding or validation failure is fatal and
// returned as a *ValidationError with no record produced. When strict is
// false the failure is captured into the result's Errors and a
// best-effort record is still returned, so callers never lose data.
func Construct(body map[string]any, strict bool) (Result, error) {
	var problems []string
	raw, err := json.Marshal(body)
	if err != nil {
		// A map[string]any built from decoded JSON always re-encodes;
		// anything else is a caller bug.
		return Result{}, fmt.Errorf("encode record body: %w", err)
	}
	var it Item
	if err := json.Unmarshal(raw, &it); err != nil {
		// Unmarshal fills everything it can before reporting the first
		// type error, which is exactly the best-effort record we want.
		problems = append(problems, fmt.Sprintf("decode record body: %v", err))
	}
	if err := it.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 && strict {
		return Result{}, &ValidationError{Problems: problems}
	}
	return Result{Item: it, Errors: problems}, nil
}

// Check runs an already-mapped record through the same gate as Construct.
func Check(it Item, strict bool) (Result, error) {
	if err := it.Validate(); err != nil {
		if strict {
			return Result{}, &ValidationError{Problems: []string{err.Error()}}
		}
		return Result{Item: it, Errors: []string{err.Error()}}, nil
	}
	return Result{Item: it}, nil
}
