package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMatchRuleAge(t *testing.T) {
	rule := RuleValue{Min: 18, Max: 35}

	// Unknown age matches regardless of bounds (fail-open).
	assert.True(t, MatchRule(RuleAge, rule, UserContext{}))
	assert.True(t, MatchRule(RuleAge, rule, UserContext{Age: intPtr(25)}))
	assert.True(t, MatchRule(RuleAge, rule, UserContext{Age: intPtr(18)}))
	assert.True(t, MatchRule(RuleAge, rule, UserContext{Age: intPtr(35)}))
	assert.False(t, MatchRule(RuleAge, rule, UserContext{Age: intPtr(17)}))
	assert.False(t, MatchRule(RuleAge, rule, UserContext{Age: intPtr(36)}))
}

func TestMatchRuleGender(t *testing.T) {
	rule := RuleValue{Values: []string{"F"}}

	assert.True(t, MatchRule(RuleGender, rule, UserContext{}))
	assert.True(t, MatchRule(RuleGender, rule, UserContext{Gender: "f"}))
	assert.False(t, MatchRule(RuleGender, rule, UserContext{Gender: "m"}))
}

func TestMatchRuleGeo(t *testing.T) {
	rule := RuleValue{Countries: []string{"US", "DE"}, Cities: []string{"Berlin"}}

	// Missing signals skip the respective check instead of rejecting.
	assert.True(t, MatchRule(RuleGeo, rule, UserContext{}))
	assert.True(t, MatchRule(RuleGeo, rule, UserContext{Country: "us"}))
	assert.True(t, MatchRule(RuleGeo, rule, UserContext{Country: "DE", City: "berlin"}))
	assert.False(t, MatchRule(RuleGeo, rule, UserContext{Country: "FR"}))
	assert.False(t, MatchRule(RuleGeo, rule, UserContext{Country: "DE", City: "Munich"}))
}

func TestMatchRuleDevice(t *testing.T) {
	tabletOnly := RuleValue{Types: []string{"tablet"}}

	assert.True(t, MatchRule(RuleDevice, tabletOnly, UserContext{}))
	assert.True(t, MatchRule(RuleDevice, tabletOnly, UserContext{DeviceModel: "Galaxy Tablet S9"}))
	assert.True(t, MatchRule(RuleDevice, tabletOnly, UserContext{DeviceModel: "iPad Pro"}))
	assert.False(t, MatchRule(RuleDevice, tabletOnly, UserContext{DeviceModel: "Pixel 8"}))
	// Empty allowed list never rejects.
	assert.True(t, MatchRule(RuleDevice, RuleValue{}, UserContext{DeviceModel: "Pixel 8"}))
}

func TestMatchRuleOS(t *testing.T) {
	rule := RuleValue{Values: []string{"android"}}

	assert.True(t, MatchRule(RuleOS, rule, UserContext{}))
	assert.True(t, MatchRule(RuleOS, rule, UserContext{OS: "Android"}))
	assert.False(t, MatchRule(RuleOS, rule, UserContext{OS: "ios"}))
	assert.True(t, MatchRule(RuleOS, RuleValue{}, UserContext{OS: "ios"}))
}

func TestMatchRuleSetIntersections(t *testing.T) {
	rule := RuleValue{Values: []string{"gaming", "music"}}

	// Only a non-empty disjoint intersection rejects.
	assert.True(t, MatchRule(RuleInterest, rule, UserContext{}))
	assert.True(t, MatchRule(RuleInterest, rule, UserContext{Interests: []string{"Gaming"}}))
	assert.False(t, MatchRule(RuleInterest, rule, UserContext{Interests: []string{"cooking"}}))
	assert.True(t, MatchRule(RuleInterest, RuleValue{}, UserContext{Interests: []string{"cooking"}}))

	assert.True(t, MatchRule(RuleAppCategory, rule, UserContext{AppCategories: []string{"music"}}))
	assert.False(t, MatchRule(RuleAppCategory, rule, UserContext{AppCategories: []string{"news"}}))
}

func TestMatchRuleUnknownType(t *testing.T) {
	assert.True(t, MatchRule("zodiac_sign", RuleValue{Values: []string{"leo"}}, UserContext{}))
}

func TestMatchTargeting(t *testing.T) {
	rules := []TargetingRule{
		{Type: RuleGeo, Value: RuleValue{Countries: []string{"US"}}, IsInclude: true},
		{Type: RuleOS, Value: RuleValue{Values: []string{"ios"}}, IsInclude: false},
	}

	// Include rule must match, exclude rule must not.
	assert.True(t, MatchTargeting(rules, UserContext{Country: "US", OS: "android"}))
	assert.False(t, MatchTargeting(rules, UserContext{Country: "FR", OS: "android"}))
	assert.False(t, MatchTargeting(rules, UserContext{Country: "US", OS: "ios"}))
	assert.True(t, MatchTargeting(nil, UserContext{}))
}

func TestParseRuleValue(t *testing.T) {
	v, err := ParseRuleValue(RuleAge, []byte(`{"min": 21}`))
	require.NoError(t, err)
	assert.Equal(t, 21, v.Min)
	assert.Equal(t, 999, v.Max)

	v, err = ParseRuleValue(RuleAge, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Min)
	assert.Equal(t, 999, v.Max)

	_, err = ParseRuleValue(RuleGeo, []byte(`{"countries": "US"}`))
	assert.Error(t, err)
}
