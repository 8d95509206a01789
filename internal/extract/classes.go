package extract

import "github.com/NikhilGogu/sustainability-signals/internal/model"

// The fixed vocabulary of extraction classes. Entities carrying any other
// class are discarded during parsing.
const (
	ClassGHGEmissions     = "ghg_emissions"
	ClassClimateTarget    = "climate_target"
	ClassEnergy           = "energy"
	ClassWater            = "water"
	ClassWaste            = "waste"
	ClassBiodiversity     = "biodiversity"
	ClassSocialMetric     = "social_metric"
	ClassGovernancePolicy = "governance_policy"
	ClassFinancialESG     = "financial_esg"
	ClassRegulatory       = "regulatory"
)

// classPillars assigns each extraction class to its ESG pillar.
var classPillars = map[string]model.Pillar{
	ClassGHGEmissions:     model.PillarE,
	ClassClimateTarget:    model.PillarE,
	ClassEnergy:           model.PillarE,
	ClassWater:            model.PillarE,
	ClassWaste:            model.PillarE,
	ClassBiodiversity:     model.PillarE,
	ClassSocialMetric:     model.PillarS,
	ClassGovernancePolicy: model.PillarG,
	ClassFinancialESG:     model.PillarG,
	ClassRegulatory:       model.PillarG,
}

// KnownClass reports whether class is part of the extraction vocabulary.
func KnownClass(class string) bool {
	_, ok := classPillars[class]
	return ok
}

// PillarForClass maps an extraction class to its pillar; empty for
// unknown classes.
func PillarForClass(class string) model.Pillar {
	return classPillars[class]
}
