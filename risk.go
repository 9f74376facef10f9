package lawdit

import (
	"strings"
)

// Severity ranks how serious a legal risk is.
type Severity string

// Severity constants, from most to least serious.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities lists all severities from most to least serious.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities {
		if strings.EqualFold(strings.TrimSpace(s), string(sev)) {
			return sev, nil
		}
	}
	return "", Errorf(EINVALID, "unknown severity %q", s)
}

// Rank returns 0 for Critical through 3 for Low, and 4 for unknown values.
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if s == sev {
			return i
		}
	}
	return len(Severities)
}

// Category groups risks by legal area.
type Category string

// Category constants.
const (
	CategoryContracts  Category = "contracts"
	CategoryRegulatory Category = "regulatory"
	CategoryLitigation Category = "litigation"
	CategoryGovernance Category = "governance"
	CategoryIP         Category = "ip"
	CategoryFinancial  Category = "financial"
)

// Categories lists all categories in report order.
var Categories = []Category{
	CategoryContracts,
	CategoryRegulatory,
	CategoryLitigation,
	CategoryGovernance,
	CategoryIP,
	CategoryFinancial,
}

var categoryTitles = map[Category]string{
	CategoryContracts:  "Contractual Risks",
	CategoryRegulatory: "Regulatory and Compliance Risks",
	CategoryLitigation: "Litigation and Dispute Risks",
	CategoryGovernance: "Corporate Governance Risks",
	CategoryIP:         "Intellectual Property Risks",
	CategoryFinancial:  "Financial and Operational Risks",
}

// Title returns the display title used in deliverables.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// ParseCategory accepts a category key or its display title.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Title()) {
			return c, nil
		}
	}
	return "", Errorf(EINVALID, "unknown risk category %q", s)
}

// FocusArea narrows an analysis to some categories.
type FocusArea string

// FocusArea constants accepted on the command line.
const (
	FocusContracts  FocusArea = "contracts"
	FocusRegulatory FocusArea = "regulatory"
	FocusLitigation FocusArea = "litigation"
	FocusGovernance FocusArea = "governance"
	FocusAll        FocusArea = "all"
)

// ParseFocusAreas validates and deduplicates focus areas. A result of nil
// means no restriction, which is also what "all" selects.
func ParseFocusAreas(values []string) ([]FocusArea, error) {
	var areas []FocusArea
	seen := make(map[FocusArea]bool)
	for _, v := range values {
		a := FocusArea(strings.ToLower(strings.TrimSpace(v)))
		switch a {
		case FocusAll:
			return nil, nil
		case FocusContracts, FocusRegulatory, FocusLitigation, FocusGovernance:
		default:
			return nil, Errorf(EINVALID, "unknown focus area %q", v)
		}
		if !seen[a] {
			seen[a] = true
			areas = append(areas, a)
		}
	}
	return areas, nil
}

// Risk is a single legal risk identified in the data room.
type Risk struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        Category `json:"category"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description,omitempty"`
	Evidence        string   `json:"evidence,omitempty"`
	Impact          string   `json:"impact,omitempty"`
	Recommendations string   `json:"recommendations,omitempty"`
	Documents       []string `json:"documents,omitempty"`
}

// Validate returns an error if the risk contains invalid fields.
func (r *Risk) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return Errorf(EINVALID, "risk title required")
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return err
	}
	if _, err := ParseSeverity(string(r.Severity)); err != nil {
		return err
	}
	return nil
}
