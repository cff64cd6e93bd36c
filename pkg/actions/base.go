// Package actions provides a small base type for building models.Action
// implementations, plus (in the builtin subpackage) a deliberately minimal
// set of reference actions. Concrete domain plugins (HTTP, code sandbox,
// LLM, data-source connectors) are out of scope and are not reproduced
// here.
package actions

import (
	"fmt"

	"github.com/smilemakc/prana/pkg/models"
)

// Base provides the default validate_params passthrough (optional; default
// passthrough) plus small config-reading helpers so concrete actions don't
// hand-roll type assertions.
type Base struct {
	Spec models.ActionSpec
}

func (b *Base) Specification() models.ActionSpec { return b.Spec }

func (b *Base) ValidateParams(params map[string]any) (map[string]any, error) {
	return params, nil
}

// RequireString reads a required string field, returning a validation_error
// if missing or the wrong type.
func RequireString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", models.ErrValidation(key, fmt.Sprintf("%q is required", key))
	}
	s, ok := v.(string)
	if !ok {
		return "", models.ErrValidation(key, fmt.Sprintf("%q must be a string", key))
	}
	return s, nil
}

// OptBool reads an optional bool field with a default.
func OptBool(params map[string]any, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// OptInt reads an optional int field with a default, tolerating the
// float64 JSON decodes to.
func OptInt(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

// OptString reads an optional string field with a default.
func OptString(params map[string]any, key string, def string) string {
	v, ok := params[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}
