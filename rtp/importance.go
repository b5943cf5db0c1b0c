// ABOUTME: Company and contact importance sub-score
// ABOUTME: Blends company size, revenue, industry tier and title seniority; used only to break ties
package rtp

import (
	"strings"

	"github.com/harperreed/speedrun/models"
)

var tierOneIndustries = []string{"software", "technology", "saas", "financial", "banking", "insurance", "healthcare", "pharma"}

var tierTwoIndustries = []string{"manufacturing", "retail", "telecom", "energy", "media", "logistics", "real estate", "education"}

// Importance scores how much a record matters independent of its urgency, 0-100.
func Importance(r models.Record) float64 {
	return clamp(companySize(r.Employees) + revenueBucket(r.Revenue) + industryTier(r.Industry) + titleSeniority(r.Title))
}

func companySize(employees int) float64 {
	switch {
	case employees >= 10000:
		return 30
	case employees >= 1000:
		return 22
	case employees >= 200:
		return 15
	case employees >= 50:
		return 8
	case employees > 0:
		return 3
	default:
		return 0
	}
}

func revenueBucket(revenue float64) float64 {
	switch {
	case revenue >= 1_000_000_000:
		return 30
	case revenue >= 100_000_000:
		return 22
	case revenue >= 10_000_000:
		return 15
	case revenue >= 1_000_000:
		return 8
	case revenue > 0:
		return 3
	default:
		return 0
	}
}

func industryTier(industry string) float64 {
	i := strings.ToLower(strings.TrimSpace(industry))
	if i == "" {
		return 0
	}
	for _, s := range tierOneIndustries {
		if strings.Contains(i, s) {
			return 20
		}
	}
	for _, s := range tierTwoIndustries {
		if strings.Contains(i, s) {
			return 12
		}
	}
	return 5
}

func titleSeniority(title string) float64 {
	t := " " + strings.ToLower(strings.NewReplacer(",", " ", "-", " ", "/", " ").Replace(title)) + " "
	switch {
	case strings.TrimSpace(t) == "":
		return 0
	case containsAny(t, "vice president", " vp ", " svp ", " evp ", "head of"):
		return 15
	case containsAny(t, " ceo ", " cfo ", " cto ", " coo ", " cro ", " cmo ", " cio ", "chief", "founder", " president ", " owner "):
		return 20
	case strings.Contains(t, "director"):
		return 10
	case strings.Contains(t, "manager"), strings.Contains(t, " lead "):
		return 5
	default:
		return 0
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
