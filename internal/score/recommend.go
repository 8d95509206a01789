package score

const maxRecommendations = 6

// recommendation pairs a missing-signal test with advice. Rules are
// checked in priority order and collection stops at the cap.
type recommendation struct {
	applies func(found func(string) bool) bool
	text    string
}

var recommendationRules = []recommendation{
	{
		func(f func(string) bool) bool { return !f("scope_3") },
		"Disclose Scope 3 value-chain emissions alongside Scopes 1 and 2.",
	},
	{
		func(f func(string) bool) bool { return f("scope_3") && !f("scope_3_categories") },
		"Break Scope 3 emissions down by GHG Protocol category.",
	},
	{
		func(f func(string) bool) bool { return !f("assurance_statement") },
		"Obtain independent third-party assurance over reported ESG data.",
	},
	{
		func(f func(string) bool) bool { return f("limited_assurance") && !f("reasonable_assurance") },
		"Upgrade key metrics from limited to reasonable assurance.",
	},
	{
		func(f func(string) bool) bool { return !f("materiality") },
		"Conduct and disclose a materiality assessment identifying priority topics.",
	},
	{
		func(f func(string) bool) bool { return !f("net_zero") && !f("reduction_target") },
		"Set and publish quantified emissions reduction targets.",
	},
	{
		func(f func(string) bool) bool {
			return (f("net_zero") || f("reduction_target")) && !f("validated_target")
		},
		"Seek SBTi validation for stated climate targets.",
	},
	{
		func(f func(string) bool) bool { return !f("multi_year_data") },
		"Provide multi-year comparative data for key performance indicators.",
	},
	{
		func(f func(string) bool) bool { return !f("methodology") || !f("reporting_boundary") },
		"Disclose the calculation methodology and organizational boundary used for reported figures.",
	},
	{
		func(f func(string) bool) bool { return !f("scenario_analysis") },
		"Perform climate scenario analysis in line with TCFD recommendations.",
	},
	{
		func(f func(string) bool) bool { return !f("safety_rates") },
		"Report quantified safety performance rates such as LTIFR or TRIR.",
	},
	{
		func(f func(string) bool) bool { return !f("gender_pay_gap") },
		"Disclose gender pay gap metrics and remediation plans.",
	},
}

// Recommendations derives up to 6 improvement suggestions from missing
// signals, in fixed priority order.
func (e *Engine) Recommendations(features map[string]bool) []string {
	found := func(key string) bool { return features[key] }

	out := make([]string, 0, maxRecommendations)
	for _, rule := range recommendationRules {
		if rule.applies(found) {
			out = append(out, rule.text)
			if len(out) >= maxRecommendations {
				break
			}
		}
	}
	return out
}
