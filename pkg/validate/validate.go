// Package validate evaluates declarative field rules against decoded
// request bodies. Every mutating route runs its schema before the service
// is called; validation is a pure function of the body and performs no I/O.
package validate

import (
	"sort"
	"strings"

	dErrors "hacklabconnect/pkg/domain-errors"
)

// Schema describes the shape a request body must satisfy.
type Schema struct {
	// Required fields must be present and non-empty after trimming.
	Required []string
	// OneOf groups require exactly one member of each group to be set.
	// Example: a resource needs a url or a fileRef, never both, never neither.
	OneOf [][]string
}

// Fields is a decoded request body reduced to named string values. Handlers
// build it from their typed request structs; absent fields map to "".
type Fields map[string]string

// Check returns nil when body satisfies the schema, or a CodeValidation
// error naming every offending field. All failures are collected so the
// client sees the full list in one round trip.
func (s Schema) Check(body Fields) error {
	var missing []string
	for _, name := range s.Required {
		if strings.TrimSpace(body[name]) == "" {
			missing = append(missing, name)
		}
	}

	var violated []string
	for _, group := range s.OneOf {
		set := 0
		for _, name := range group {
			if strings.TrimSpace(body[name]) != "" {
				set++
			}
		}
		if set != 1 {
			violated = append(violated, strings.Join(group, "|"))
		}
	}

	if len(missing) == 0 && len(violated) == 0 {
		return nil
	}

	sort.Strings(missing)
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(missing, ", "))
	}
	if len(violated) > 0 {
		parts = append(parts, "exactly one of required: "+strings.Join(violated, ", "))
	}
	return dErrors.New(dErrors.CodeValidation, strings.Join(parts, "; "))
}
