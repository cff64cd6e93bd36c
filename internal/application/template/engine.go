package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

// ErrInvalidTemplate is returned for malformed template expressions.
var ErrInvalidTemplate = fmt.Errorf("invalid template")

// templatePattern matches {{ expr }} placeholders. Non-greedy so multiple
// placeholders in one string are matched individually.
var templatePattern = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}`)

// Engine resolves {{ expr }} placeholders against a context map using
// expr-lang. It implements engine.TemplateRenderer.
type Engine struct {
	cache *programCache
}

// NewEngine builds a template engine with its own compiled-program cache.
func NewEngine() *Engine {
	return &Engine{cache: newProgramCache(256)}
}

// Render resolves every template value in templates against context and
// returns the rendered map. Values that are not template strings pass
// through unmodified as literal params.
func (e *Engine) Render(templates map[string]any, context map[string]any) (map[string]any, error) {
	if templates == nil {
		return nil, nil
	}
	out := make(map[string]any, len(templates))
	for key, value := range templates {
		resolved, err := e.resolve(value, context)
		if err != nil {
			return nil, fmt.Errorf("rendering %q: %w", key, err)
		}
		out[key] = resolved
	}
	return out, nil
}

func (e *Engine) resolve(value any, context map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return e.resolveString(v, context)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, sub := range v {
			resolved, err := e.resolve(sub, context)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, sub := range v {
			resolved, err := e.resolve(sub, context)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}

// resolveString renders a single template string. A string that is
// entirely one {{ expr }} span (no surrounding text) preserves the
// expression's native Go value; any other string is treated as
// interpolation and the resolved values are stringified into the
// surrounding text.
func (e *Engine) resolveString(s string, context map[string]any) (any, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	if m := templatePattern.FindStringSubmatchIndex(s); m != nil && m[0] == 0 && m[1] == len(s) {
		return e.eval(s[m[2]:m[3]], context)
	}

	var evalErr error
	result := templatePattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := templatePattern.FindStringSubmatch(match)
		value, err := e.eval(sub[1], context)
		if err != nil {
			evalErr = err
			return match
		}
		return stringify(value)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return result, nil
}

// eval compiles (or reuses a cached compile of) exprSrc and runs it against
// context.
func (e *Engine) eval(exprSrc string, context map[string]any) (any, error) {
	program, ok := e.cache.get(exprSrc)
	if !ok {
		compiled, err := expr.Compile(exprSrc, expr.Env(context), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, exprSrc, err)
		}
		program = compiled
		e.cache.put(exprSrc, program)
	}
	return expr.Run(program, context)
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}

// HasTemplates reports whether s contains any {{ ... }} placeholder.
func HasTemplates(s string) bool {
	return templatePattern.MatchString(s)
}
