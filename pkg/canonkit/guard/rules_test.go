package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/canonkit/pkg/canonkit/config"
)

func TestNumeric(t *testing.T) {
	rule := Numeric()

	assert.NoError(t, rule.Validate("age", 42))
	assert.NoError(t, rule.Validate("age", int64(42)))
	assert.NoError(t, rule.Validate("age", uint8(42)))
	assert.NoError(t, rule.Validate("age", 42.5))
	assert.NoError(t, rule.Validate("age", float32(1.5)))

	// Numeric strings are still strings
	err := rule.Validate("age", "43")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "age", valErr.Field)
	assert.Equal(t, "must be numeric", valErr.Reason)

	assert.Error(t, rule.Validate("age", nil))
	assert.Error(t, rule.Validate("age", true))
}

func TestMinLength(t *testing.T) {
	rule := MinLength(2)

	assert.NoError(t, rule.Validate("name", "Ab"))
	assert.NoError(t, rule.Validate("name", "Ada"))

	err := rule.Validate("name", "A")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "name", valErr.Field)
	assert.Equal(t, "must be at least 2 characters", valErr.Reason)

	assert.Error(t, rule.Validate("name", ""))
	assert.Error(t, rule.Validate("name", 42)) // not a string
}

func TestMinLengthCountsRunes(t *testing.T) {
	rule := MinLength(2)
	assert.NoError(t, rule.Validate("name", "日本"))

	err := rule.Validate("name", "日")
	assert.Error(t, err)
}

func TestMaxLength(t *testing.T) {
	rule := MaxLength(3)

	assert.NoError(t, rule.Validate("code", "abc"))
	assert.Error(t, rule.Validate("code", "abcd"))
	assert.Error(t, rule.Validate("code", 1))
}

func TestRange(t *testing.T) {
	rule := Range(0, 130)

	assert.NoError(t, rule.Validate("age", 0))
	assert.NoError(t, rule.Validate("age", 130))
	assert.NoError(t, rule.Validate("age", 42.5))

	assert.Error(t, rule.Validate("age", -1))
	assert.Error(t, rule.Validate("age", 131))
	assert.Error(t, rule.Validate("age", "42"))
}

func TestOneOf(t *testing.T) {
	rule := OneOf("active", "retired")

	assert.NoError(t, rule.Validate("status", "active"))
	assert.NoError(t, rule.Validate("status", "retired"))
	assert.Error(t, rule.Validate("status", "pending"))
	assert.Error(t, rule.Validate("status", 1))
}

func TestRuleFunc(t *testing.T) {
	called := false
	rule := RuleFunc(func(field string, value any) error {
		called = true
		return nil
	})

	assert.NoError(t, rule.Validate("f", "v"))
	assert.True(t, called)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "age", Reason: "must be numeric"}
	assert.Equal(t, "validation error on age: must be numeric", err.Error())
}

func TestRulesFromConfig(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
age:
  numeric: true
  range: {min: 0, max: 130}
name:
  min_length: 2
  max_length: 40
status:
  one_of: [active, retired]
`))
	require.NoError(t, err)

	rules, err := RulesFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	// age: numeric + range
	require.Len(t, rules["age"], 2)
	for _, r := range rules["age"] {
		assert.NoError(t, r.Validate("age", 42))
	}
	assert.Error(t, rules["age"][0].Validate("age", "43"))
	assert.Error(t, rules["age"][1].Validate("age", 200))

	// name: min_length + max_length
	require.Len(t, rules["name"], 2)
	assert.Error(t, rules["name"][0].Validate("name", "A"))

	// status: one_of
	require.Len(t, rules["status"], 1)
	assert.NoError(t, rules["status"][0].Validate("status", "active"))
	assert.Error(t, rules["status"][0].Validate("status", "bogus"))
}

func TestRulesFromConfigUnknownRule(t *testing.T) {
	cfg, err := config.FromYAML([]byte("age:\n  regex: '[0-9]+'\n"))
	require.NoError(t, err)

	_, err = RulesFromConfig(cfg)
	assert.ErrorContains(t, err, `unknown rule "regex"`)
}

func TestRulesFromConfigBadBlock(t *testing.T) {
	cfg, err := config.FromYAML([]byte("age: numeric\n"))
	require.NoError(t, err)

	_, err = RulesFromConfig(cfg)
	assert.ErrorContains(t, err, "rule block must be a map")
}

func TestRulesFromConfigBadRange(t *testing.T) {
	cfg, err := config.FromYAML([]byte("age:\n  range: 130\n"))
	require.NoError(t, err)

	_, err = RulesFromConfig(cfg)
	assert.ErrorContains(t, err, "range must be a map")
}

func TestRulesFromConfigBadOneOf(t *testing.T) {
	cfg, err := config.FromYAML([]byte("status:\n  one_of: active\n"))
	require.NoError(t, err)

	_, err = RulesFromConfig(cfg)
	assert.ErrorContains(t, err, "one_of must be a list")
}
