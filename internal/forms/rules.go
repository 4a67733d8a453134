package forms

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Rules describes the declarative validation applied to a single field.
// Rules are evaluated in a fixed order: required, pattern, min length,
// max length, custom predicate. The first failing rule's message wins,
// so a field carries at most one error message at a time.
type Rules struct {
	Required  bool
	Pattern   *regexp.Regexp
	MinLength int
	MaxLength int

	// Validate is the custom predicate, run last. A false result without a
	// message falls back to the generic invalid-field message.
	Validate func(value string) (bool, string)

	// Transform is applied to the raw value on every change before it is
	// stored, so the stored value and the displayed value are always the
	// already-formatted string.
	Transform func(value string) string

	// Optional message overrides. Zero values fall back to the defaults.
	RequiredMessage string
	PatternMessage  string
}

// Schema maps field names to their rules. A field listed with zero-value
// Rules is still governed by the schema (it is touched and cleared on full
// validation) but always passes.
type Schema map[string]Rules

// Check runs the rules against a value and returns the first failing rule's
// message, or the empty string when the value passes.
func (r Rules) Check(value string) string {
	if r.Required && value == "" {
		if r.RequiredMessage != "" {
			return r.RequiredMessage
		}
		return "Este campo é obrigatório"
	}

	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		if r.PatternMessage != "" {
			return r.PatternMessage
		}
		return "Formato inválido"
	}

	if r.MinLength > 0 && utf8.RuneCountInString(value) < r.MinLength {
		return fmt.Sprintf("Mínimo de %d caracteres", r.MinLength)
	}

	if r.MaxLength > 0 && utf8.RuneCountInString(value) > r.MaxLength {
		return fmt.Sprintf("Máximo de %d caracteres", r.MaxLength)
	}

	if r.Validate != nil {
		ok, msg := r.Validate(value)
		if !ok {
			if msg == "" {
				return "Campo inválido"
			}
			return msg
		}
	}

	return ""
}
