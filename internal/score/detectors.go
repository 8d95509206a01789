package score

import "regexp"

// Detector is one signal pattern over the evidence-block corpus. The
// detector set is data, not code: new signals are rows in this table.
type Detector struct {
	Key       string
	Pattern   *regexp.Regexp
	Alt       *regexp.Regexp // Optional alternative pattern; the one that matches wins
	BlockCap  int            // Max occurrences counted per block
	MaxQuotes int            // Max evidence quotes kept
}

const defaultBlockCap = 25

func det(key, pattern string) Detector {
	return Detector{
		Key:       key,
		Pattern:   regexp.MustCompile(`(?i)` + pattern),
		BlockCap:  defaultBlockCap,
		MaxQuotes: 3,
	}
}

// detAlt builds a composite detector trying two alternative patterns.
// These are documented exceptions for signals with two distinct phrasings,
// not a general mechanism.
func detAlt(key, pattern, alt string) Detector {
	d := det(key, pattern)
	d.Alt = regexp.MustCompile(`(?i)` + alt)
	d.MaxQuotes = 4
	return d
}

// Detectors is the fixed signal table consumed by Evaluate. Keys are
// stable: persisted results index features by them.
var Detectors = []Detector{
	// Reporting frameworks and standards
	det("gri", `\bGRI\b|global reporting initiative`),
	det("sasb", `\bSASB\b|sustainability accounting standards board`),
	det("tcfd", `\bTCFD\b|task force on climate[- ]related`),
	det("issb", `\bISSB\b|IFRS S[12]\b`),
	det("csrd", `\bCSRD\b|corporate sustainability reporting directive`),
	det("esrs", `\bESRS\b|european sustainability reporting standards`),
	det("eu_taxonomy", `eu taxonomy|taxonomy[- ](aligned|eligible|alignment)`),
	det("cdp", `\bCDP\b|carbon disclosure project`),
	det("un_sdg", `\bSDGs?\b|sustainable development goals?`),
	det("un_global_compact", `un global compact|\bUNGC\b`),
	det("sbti", `\bSBTi\b|science[- ]based targets?`),
	det("ghg_protocol", `ghg protocol|greenhouse gas protocol`),
	det("iso_14001", `ISO\s*14001`),
	det("iso_management", `ISO\s*(45001|50001|27001)`),
	det("paris_agreement", `paris agreement|1\.5\s*°?\s*C\b`),

	// Emissions accounting
	det("scope_1", `scope\s*1\b`),
	det("scope_2", `scope\s*2\b`),
	det("scope_3", `scope\s*3\b`),
	det("scope_2_dual_reporting", `market[- ]based|location[- ]based`),
	detAlt("scope_3_categories",
		`categor(y|ies)\s*\d{1,2}\b`,
		`(upstream|downstream)[^.]{0,60}(emissions|scope\s*3)`),
	det("emissions_intensity", `(emissions?|carbon|ghg)\s+intensity|tco2e\s*(/|per)\s*`),
	det("emissions_units", `\b(t|kt|mt)co2-?e?\b|tonnes?\s+(of\s+)?co2`),
	det("base_year", `base(line)?\s+year`),
	det("emissions_restatement", `restat(ed|ement|ing)|recalculat(ed|ion)`),
	det("carbon_offsets", `carbon (offsets?|credits?)|renewable energy certificates?|\bRECs\b`),
	det("carbon_removals", `carbon removals?|sequestrat(ion|ed)`),

	// Targets and commitments
	det("net_zero", `net[- ]?zero`),
	det("carbon_neutral", `carbon[- ]neutral(ity)?`),
	detAlt("reduction_target",
		`reduc(e|tion)[^.]{0,60}(emissions|ghg|carbon|footprint)`,
		`(emissions|ghg|carbon)[^.]{0,60}reduction target`),
	det("interim_target", `interim target|near[- ]term target|milestone`),
	det("validated_target", `(validated|approved) by (the )?(SBTi|science based targets)`),

	// Environment
	det("renewable_energy", `renewable (energy|electricity|power)|solar|wind (power|energy|farm)`),
	det("energy_consumption", `energy (consumption|use|usage)|\b(M|G)Wh\b|\bGJ\b`),
	det("energy_efficiency", `energy efficien(cy|t)`),
	det("water_use", `water (withdrawal|consumption|use|usage|recycl)|megalitres?|\bm³\b|\bm3\b`),
	det("waste_management", `waste (generat|divert|recycl|management)|landfill`),
	det("hazardous_waste", `hazardous waste`),
	det("circular_economy", `circular economy|circularity|recycled content`),
	det("biodiversity", `biodiversity|nature[- ]related|deforestation|\bTNFD\b|land use change`),
	det("pollution", `air emissions|\bNOx\b|\bSOx\b|particulate matter|spills?\b`),
	det("climate_risk", `climate[- ]related risks?|climate risks?`),
	det("transition_risk", `transition risks?`),
	det("physical_risk", `physical (climate )?risks?`),
	det("scenario_analysis", `scenario analysis|climate scenarios?|\bRCP\s?\d|\bSSP\d`),
	det("internal_carbon_price", `internal carbon pric(e|ing)|shadow (carbon )?price`),

	// Social
	det("workforce_diversity", `diversity|women in (management|leadership)|gender (balance|diversity|representation)`),
	det("gender_pay_gap", `gender pay gap|pay equity|equal pay`),
	det("health_safety", `health (and|&) safety|occupational (health|safety)|\bOHS\b`),
	det("safety_rates", `\bLTIFR\b|\bTRIR\b|\bLTIR\b|lost[- ]time injur|recordable (incident|injury)`),
	det("training_development", `training hours|learning and development|upskilling`),
	det("employee_engagement", `employee engagement|engagement survey`),
	det("human_rights", `human rights`),
	det("modern_slavery", `modern slavery|forced labou?r|child labou?r`),
	det("supplier_screening", `supplier (audits?|assessments?|screening|code of conduct)`),
	det("responsible_sourcing", `responsible sourcing|sustainable procurement`),
	det("community_investment", `community (investment|engagement|programmes?|programs?)|volunteer`),
	det("living_wage", `living wage`),

	// Governance
	detAlt("board_oversight",
		`board[^.]{0,60}(oversight|oversee|responsib)[^.]{0,60}(sustainability|esg|climate)`,
		`(sustainability|esg|climate)[^.]{0,60}overs(ight|een) by[^.]{0,40}board`),
	det("esg_committee", `(sustainability|esg) committee`),
	det("esg_remuneration", `(remuneration|compensation|incentives?)[^.]{0,60}(esg|sustainability|climate)`),
	det("code_of_conduct", `code of (conduct|ethics)`),
	det("anti_corruption", `anti[- ]?(corruption|bribery)`),
	det("whistleblower", `whistle[- ]?blow|speak[- ]up|ethics (hotline|line)`),
	det("data_privacy", `data (privacy|protection)|\bGDPR\b`),
	det("cybersecurity", `cyber\s?security|information security`),
	det("risk_management", `risk management|enterprise risk`),
	det("materiality", `materiality (assessment|analysis|matrix|process)|material (topics|issues|matters)`),
	det("double_materiality", `double materiality|(impact|financial) materiality`),
	det("stakeholder_engagement", `stakeholder (engagement|dialogue|consultation)`),
	det("tax_transparency", `tax (transparency|strategy|governance)|country[- ]by[- ]country`),

	// Assurance and methodology
	det("assurance_statement", `assur(ance|ed)|independent[^.]{0,40}(verification|verified|review)`),
	det("limited_assurance", `limited assurance`),
	det("reasonable_assurance", `reasonable assurance`),
	det("assurance_standard", `ISAE\s?3000|ISAE\s?3410|AA1000`),
	det("assurance_provider", `deloitte|\bEY\b|ernst & young|kpmg|pwc|pricewaterhouse|bureau veritas|\bDNV\b|\bSGS\b|\bLRQA\b|\bTÜV\b`),
	det("methodology", `methodolog(y|ies)|calculation approach`),
	det("emission_factors", `emission factors?|\bDEFRA\b|\bIEA\b factors`),
	det("reporting_boundary", `(reporting|organi[sz]ational) boundar(y|ies)|operational control|equity share approach`),
	detAlt("multi_year_data",
		`(FY\s?)?20\d{2}\D{1,30}(FY\s?)?20\d{2}\D{1,30}(FY\s?)?20\d{2}`,
		`(three|four|five)[- ]year (trend|history|comparison)`),
	det("data_tables", `\|[^|\n]+\|[^|\n]+\|`),
	det("kpi_summary", `(performance|data) (summary|tables?)|key performance indicators?|\bKPIs?\b`),
	det("glossary", `glossary|list of abbreviations`),
}
