package domain

import (
	"encoding/json"
	"strings"
)

// RuleType identifies which user attribute a targeting rule constrains.
type RuleType string

const (
	RuleAge         RuleType = "age"
	RuleGender      RuleType = "gender"
	RuleGeo         RuleType = "geo"
	RuleDevice      RuleType = "device"
	RuleOS          RuleType = "os"
	RuleInterest    RuleType = "interest"
	RuleAppCategory RuleType = "app_category"
)

// RuleValue is the tagged parameter set of a targeting rule. The fields in
// use depend on the rule type: age rules use Min/Max, geo rules use
// Countries/Cities, device rules use Types and the remaining types use
// Values. It is parsed from the stored JSON once, when the campaign
// snapshot is built, not on every match.
type RuleValue struct {
	Min       int      `json:"min"`
	Max       int      `json:"max"`
	Values    []string `json:"values,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Cities    []string `json:"cities,omitempty"`
	Types     []string `json:"types,omitempty"`
}

// TargetingRule constrains who may see a campaign. IsInclude true means the
// user must match the rule; false means the user must not match it. All
// rules of a campaign combine with AND semantics.
type TargetingRule struct {
	CampaignID int64     `json:"campaign_id"`
	Type       RuleType  `json:"rule_type"`
	Value      RuleValue `json:"rule_value"`
	IsInclude  bool      `json:"is_include"`
}

// ParseRuleValue decodes stored rule parameters for the given rule type.
// Age bounds default to 0 and 999 when absent. An error marks the rule as a
// data-quality problem; callers treat such rules as unconstrained.
func ParseRuleValue(ruleType RuleType, raw []byte) (RuleValue, error) {
	v := RuleValue{Max: 999}
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return RuleValue{Max: 999}, err
	}
	if ruleType == RuleAge && v.Max == 0 {
		v.Max = 999
	}
	return v, nil
}

// MatchRule evaluates one rule against the user snapshot. The policy is
// fail-open: unknown rule types and missing user signals match rather than
// block serving.
func MatchRule(ruleType RuleType, v RuleValue, user UserContext) bool {
	switch ruleType {
	case RuleAge:
		if user.Age == nil {
			return true
		}
		return v.Min <= *user.Age && *user.Age <= v.Max

	case RuleGender:
		if user.Gender == "" {
			return true
		}
		return containsFold(v.Values, user.Gender)

	case RuleGeo:
		if len(v.Countries) > 0 && user.Country != "" &&
			!containsFold(v.Countries, user.Country) {
			return false
		}
		if len(v.Cities) > 0 && user.City != "" &&
			!containsFold(v.Cities, user.City) {
			return false
		}
		return true

	case RuleDevice:
		if user.DeviceModel == "" {
			return true
		}
		deviceType := classifyDevice(user.DeviceModel)
		if len(v.Types) > 0 && !containsFold(v.Types, deviceType) {
			return false
		}
		return true

	case RuleOS:
		if len(v.Values) == 0 || user.OS == "" {
			return true
		}
		return containsFold(v.Values, user.OS)

	case RuleInterest:
		return intersectsFold(v.Values, user.Interests)

	case RuleAppCategory:
		return intersectsFold(v.Values, user.AppCategories)
	}

	// Unrecognized rule types never block serving.
	return true
}

// MatchTargeting reports whether the user passes every rule of a campaign.
// Include rules must match, exclude rules must not; the first failing rule
// rejects the campaign.
func MatchTargeting(rules []TargetingRule, user UserContext) bool {
	for _, rule := range rules {
		matched := MatchRule(rule.Type, rule.Value, user)
		if rule.IsInclude && !matched {
			return false
		}
		if !rule.IsInclude && matched {
			return false
		}
	}
	return true
}

// classifyDevice buckets a device model string into "tablet" or "phone".
func classifyDevice(model string) string {
	m := strings.ToLower(model)
	if strings.Contains(m, "tablet") || strings.Contains(m, "pad") {
		return "tablet"
	}
	return "phone"
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// intersectsFold is true unless both sets are non-empty and disjoint.
func intersectsFold(targets, user []string) bool {
	if len(targets) == 0 || len(user) == 0 {
		return true
	}
	for _, u := range user {
		if containsFold(targets, u) {
			return true
		}
	}
	return false
}
