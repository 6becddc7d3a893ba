package guard

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/randalmurphal/canonkit/pkg/canonkit/config"
)

// Rule validates a value before it is committed to a field.
type Rule interface {
	// Validate returns a *ValidationError if value may not be written to
	// field, nil otherwise.
	Validate(field string, value any) error
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(field string, value any) error

// Validate implements Rule.
func (f RuleFunc) Validate(field string, value any) error {
	return f(field, value)
}

// Numeric accepts any integer or float value and rejects everything else,
// including numeric strings.
func Numeric() Rule {
	return RuleFunc(func(field string, value any) error {
		if isNumeric(value) {
			return nil
		}
		return newValidationError(field, "must be numeric")
	})
}

// MinLength accepts strings of at least n runes.
func MinLength(n int) Rule {
	return RuleFunc(func(field string, value any) error {
		s, ok := value.(string)
		if !ok {
			return newValidationError(field, "must be a string")
		}
		if utf8.RuneCountInString(s) < n {
			return newValidationError(field, "must be at least %d characters", n)
		}
		return nil
	})
}

// MaxLength accepts strings of at most n runes.
func MaxLength(n int) Rule {
	return RuleFunc(func(field string, value any) error {
		s, ok := value.(string)
		if !ok {
			return newValidationError(field, "must be a string")
		}
		if utf8.RuneCountInString(s) > n {
			return newValidationError(field, "must be at most %d characters", n)
		}
		return nil
	})
}

// Range accepts numeric values within [min, max].
func Range(min, max float64) Rule {
	return RuleFunc(func(field string, value any) error {
		f, ok := asFloat(value)
		if !ok {
			return newValidationError(field, "must be numeric")
		}
		if f < min || f > max {
			return newValidationError(field, "must be between %v and %v", min, max)
		}
		return nil
	})
}

// OneOf accepts only the listed values (compared with ==).
func OneOf(allowed ...any) Rule {
	return RuleFunc(func(field string, value any) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return newValidationError(field, "must be one of %v", allowed)
	})
}

// isNumeric reports whether value has an integer or float kind.
func isNumeric(value any) bool {
	_, ok := asFloat(value)
	return ok
}

// asFloat converts any integer or float value to float64.
func asFloat(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// RulesFromConfig builds per-field rule sets from a config document.
// The config maps field names to rule blocks:
//
//	age:
//	  numeric: true
//	  range: {min: 0, max: 130}
//	name:
//	  min_length: 2
//	  max_length: 40
//	status:
//	  one_of: [active, retired]
//
// Unknown rule names are an error so that typos fail loudly at load time.
func RulesFromConfig(cfg config.Config) (map[string][]Rule, error) {
	rules := make(map[string][]Rule)

	for _, field := range cfg.Keys() {
		block, ok := cfg.Sub(field)
		if !ok {
			return nil, fmt.Errorf("field %q: rule block must be a map", field)
		}

		fieldRules, err := parseRuleBlock(field, block)
		if err != nil {
			return nil, err
		}
		rules[field] = fieldRules
	}

	return rules, nil
}

// parseRuleBlock builds the rules for one field.
func parseRuleBlock(field string, block config.Config) ([]Rule, error) {
	var rules []Rule

	for _, name := range block.Keys() {
		switch name {
		case "numeric":
			if block.Bool("numeric", false) {
				rules = append(rules, Numeric())
			}
		case "min_length":
			rules = append(rules, MinLength(block.Int("min_length", 0)))
		case "max_length":
			rules = append(rules, MaxLength(block.Int("max_length", 0)))
		case "range":
			sub, ok := block.Sub("range")
			if !ok {
				return nil, fmt.Errorf("field %q: range must be a map with min and max", field)
			}
			rules = append(rules, Range(sub.Float("min", 0), sub.Float("max", 0)))
		case "one_of":
			values := block.Any("one_of", nil)
			list, ok := values.([]any)
			if !ok {
				return nil, fmt.Errorf("field %q: one_of must be a list", field)
			}
			rules = append(rules, OneOf(list...))
		default:
			return nil, fmt.Errorf("field %q: unknown rule %q", field, name)
		}
	}

	return rules, nil
}
