package extract

import "fmt"

const extractSystem = `You extract structured ESG entities from sustainability report text. You respond with JSON only, no prose.`

const extractInstructions = `Extract structured ESG (Environmental, Social, Governance) entities from the sustainability report text below. Assign every entity to exactly one of these extraction classes:

- ghg_emissions: GHG / CO2 / carbon emissions data (scope 1, 2, 3 figures, totals, intensity)
- climate_target: reduction targets, net-zero commitments, SBTi pledges, Paris-aligned goals
- energy: energy consumption, renewable energy share, MWh figures, energy efficiency
- water: water usage, withdrawal, recycling data
- waste: waste generation, recycling, hazardous waste
- biodiversity: ecological impacts, land use, deforestation
- social_metric: employee diversity, health and safety, training, community investment, human rights
- governance_policy: board oversight, ethics policies, anti-corruption, data privacy, risk management
- financial_esg: ESG-linked financial figures, green revenue, sustainable investment amounts
- regulatory: CSRD, TCFD, GRI, SASB, EU Taxonomy references

Rules:
1. extraction_text must be EXACT VERBATIM text copied from the source. Do NOT paraphrase.
2. List entities in the order they appear in the text.
3. Give each entity meaningful attributes for context (e.g. scope, year, value, unit, baseline, status).
4. If the text contains no ESG-relevant entities, return an empty array.
5. Prefer specific numeric data over vague qualitative statements.

Respond with a JSON array of objects shaped like:
[{"extraction_class": "...", "extraction_text": "...", "attributes": {"key": "value"}}]

Example input:
"We will achieve a 100% reduction in absolute scope 1 and 2 GHG emissions by FY28 from a FY20 base year. Total carbon footprint: Scope 1 14,011 tCO2e. Energy use: Renewable 14,560 MWh. 42% women in management roles. Our Board approved an updated Data Privacy Policy in FY24."

Example output:
[
  {"extraction_class": "climate_target", "extraction_text": "100% reduction in absolute scope 1 and 2 GHG emissions by FY28", "attributes": {"scope": "scope 1+2", "reduction_pct": "100%", "target_year": "FY28", "base_year": "FY20"}},
  {"extraction_class": "ghg_emissions", "extraction_text": "Scope 1 14,011 tCO2e", "attributes": {"scope": "scope 1", "value": "14011", "unit": "tCO2e"}},
  {"extraction_class": "energy", "extraction_text": "Renewable 14,560 MWh", "attributes": {"renewable_mwh": "14560"}},
  {"extraction_class": "social_metric", "extraction_text": "42% women in management roles", "attributes": {"metric": "gender diversity", "value": "42%", "scope": "management"}},
  {"extraction_class": "governance_policy", "extraction_text": "Board approved an updated Data Privacy Policy in FY24", "attributes": {"policy": "Data Privacy Policy", "status": "approved", "year": "FY24"}}
]`

// buildPrompt assembles the extraction prompt for one chunk.
func buildPrompt(chunkText string) string {
	return fmt.Sprintf("%s\n\nSource text:\n%s", extractInstructions, chunkText)
}
