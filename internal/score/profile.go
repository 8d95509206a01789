package score

import (
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// Profile computes corpus-level quantitative statistics over the block
// corpus. Purely diagnostic; the score formula only consumes YearMentions
// as a consistency gate.
func Profile(blocks []model.EvidenceBlock) model.QuantitativeProfile {
	var p model.QuantitativeProfile
	totalChars := 0
	digits := 0

	for _, b := range blocks {
		p.PercentMentions += len(percentRe.FindAllString(b.Text, -1))
		p.YearMentions += len(yearRe.FindAllString(b.Text, -1))
		p.UnitMentions += len(unitRe.FindAllString(b.Text, -1))
		if strings.Count(b.Text, "|") >= 2 {
			p.TableRows += strings.Count(b.Text, "|") / 2
		}
		totalChars += len(b.Text)
		for _, r := range b.Text {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
	}

	if totalChars > 0 {
		p.NumericDensity = float64(digits) * 1000 / float64(totalChars)
	}
	return p
}
