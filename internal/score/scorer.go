package score

import (
	"math"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// DefaultWeights are the fixed subscore weights of the overall score
var DefaultWeights = model.Weights{
	Completeness: 0.35,
	Consistency:  0.25,
	Assurance:    0.20,
	Transparency: 0.20,
}

// Score combines feature results and corpus statistics into the four
// subscores and the weighted overall score. Pure: identical inputs give
// identical outputs.
func (e *Engine) Score(features map[string]model.FeatureResult, profile model.QuantitativeProfile) (int, model.Subscores) {
	found := func(key string) bool { return features[key].Found }
	depth := func(key string) model.FeatureResult { return features[key] }

	subs := model.Subscores{
		Completeness: completeness(found),
		Consistency:  consistency(found, depth, profile),
		Assurance:    assurance(found),
		Transparency: transparency(found),
	}

	w := DefaultWeights
	overall := float64(subs.Completeness)*w.Completeness +
		float64(subs.Consistency)*w.Consistency +
		float64(subs.Assurance)*w.Assurance +
		float64(subs.Transparency)*w.Transparency

	return clamp(int(math.Round(overall))), subs
}

// completeness rewards breadth of E, S, and G metric disclosure (0-100)
func completeness(found func(string) bool) int {
	pts := 0

	// Emissions coverage
	if found("scope_1") {
		pts += 10
	}
	if found("scope_2") {
		pts += 8
	}
	if found("scope_3") {
		pts += 10
	}
	if found("scope_3") && found("scope_3_categories") {
		pts += 6
	}
	if found("scope_2") && found("scope_2_dual_reporting") {
		pts += 4
	}
	if found("emissions_units") {
		pts += 3
	}
	if found("emissions_intensity") {
		pts += 4
	}

	// Wider environmental coverage
	if found("energy_consumption") {
		pts += 6
	}
	if found("renewable_energy") {
		pts += 4
	}
	if found("water_use") {
		pts += 5
	}
	if found("waste_management") {
		pts += 5
	}
	if found("biodiversity") {
		pts += 4
	}
	if found("pollution") {
		pts += 2
	}
	if found("climate_risk") {
		pts += 4
	}

	// Social coverage
	if found("workforce_diversity") {
		pts += 5
	}
	if found("health_safety") {
		pts += 4
	}
	if found("safety_rates") {
		pts += 3
	}
	if found("training_development") {
		pts += 3
	}
	if found("human_rights") {
		pts += 4
	}
	if found("community_investment") {
		pts += 2
	}

	// Governance coverage
	if found("board_oversight") {
		pts += 4
	}
	if found("code_of_conduct") {
		pts += 3
	}
	if found("anti_corruption") {
		pts += 3
	}
	if found("data_privacy") {
		pts += 2
	}

	return clamp(pts)
}

// consistency rewards comparability: multi-year data, stated baselines,
// methodology and boundary disclosure (0-100)
func consistency(found func(string) bool, depth func(string) model.FeatureResult, profile model.QuantitativeProfile) int {
	pts := 0

	if found("multi_year_data") {
		pts += 18
	}
	if found("base_year") {
		pts += 12
	}
	if found("data_tables") {
		pts += 10
	}
	if found("kpi_summary") {
		pts += 8
	}
	if found("emissions_intensity") {
		pts += 8
	}
	if found("methodology") {
		pts += 14
	}
	if found("reporting_boundary") {
		pts += 12
	}
	if found("emission_factors") {
		pts += 8
	}
	if found("ghg_protocol") {
		pts += 8
	}
	if found("emissions_restatement") {
		pts += 6
	}

	// Corpus-statistic gates: structured data spread through the document
	if depth("data_tables").PagesTouched >= 3 {
		pts += 6
	}
	if profile.YearMentions >= 10 {
		pts += 6
	}

	return clamp(pts)
}

// assurance maps the assurance tier to fixed points: none 0, any
// statement 38, limited 60, reasonable 82, +8 when a recognized standard
// or named provider backs it, capped at 90. Intentional step function,
// not a continuous scale.
func assurance(found func(string) bool) int {
	pts := 0
	switch {
	case found("reasonable_assurance"):
		pts = 82
	case found("limited_assurance"):
		pts = 60
	case found("assurance_statement"):
		pts = 38
	}
	if pts > 0 && (found("assurance_standard") || found("assurance_provider")) {
		pts += 8
	}
	if pts > 90 {
		pts = 90
	}
	return pts
}

// transparency rewards framework adoption, materiality process, and
// method openness (0-100)
func transparency(found func(string) bool) int {
	pts := 0

	// Framework breadth: 5 points per adopted framework, capped at 30
	frameworks := []string{
		"gri", "sasb", "tcfd", "issb", "csrd",
		"esrs", "cdp", "un_sdg", "un_global_compact", "eu_taxonomy",
	}
	breadth := 0
	for _, f := range frameworks {
		if found(f) {
			breadth += 5
		}
	}
	if breadth > 30 {
		breadth = 30
	}
	pts += breadth

	if found("materiality") {
		pts += 10
	}
	if found("double_materiality") {
		pts += 6
	}
	if found("stakeholder_engagement") {
		pts += 8
	}
	if found("sbti") {
		pts += 6
	}
	if found("validated_target") {
		pts += 4
	}
	if found("scenario_analysis") {
		pts += 8
	}
	if found("internal_carbon_price") {
		pts += 4
	}
	if found("reporting_boundary") {
		pts += 6
	}
	if found("whistleblower") {
		pts += 4
	}
	if found("tax_transparency") {
		pts += 4
	}
	if found("glossary") {
		pts += 4
	}
	if found("paris_agreement") {
		pts += 2
	}

	return clamp(pts)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
