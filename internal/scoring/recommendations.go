package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FallbackRecommendations apply to any category missing from the table.
var FallbackRecommendations = []string{"Review current practices", "Consult with experts"}

// RecommendationTable maps category -> status -> ordered recommendations.
// It is content, not logic: extend it without touching the engine.
type RecommendationTable map[string]map[Status][]string

// DefaultRecommendations returns the built-in table.
func DefaultRecommendations() RecommendationTable {
	return RecommendationTable{
		"Security": {
			StatusPoor:      {"Implement multi-factor authentication", "Set up continuous security monitoring", "Conduct regular security audits"},
			StatusFair:      {"Enhance access controls", "Implement automated security scanning", "Review security policies"},
			StatusGood:      {"Fine-tune security configurations", "Implement advanced threat detection"},
			StatusExcellent: {"Maintain current security posture", "Consider zero-trust architecture"},
		},
		"Infrastructure": {
			StatusPoor:      {"Implement infrastructure as code", "Set up proper monitoring", "Establish backup procedures"},
			StatusFair:      {"Optimize resource allocation", "Implement auto-scaling", "Review architecture design"},
			StatusGood:      {"Fine-tune performance settings", "Implement advanced monitoring"},
			StatusExcellent: {"Maintain current infrastructure", "Consider edge computing options"},
		},
		"Cost Management": {
			StatusPoor:      {"Implement cost monitoring tools", "Review resource utilization", "Set up budget alerts"},
			StatusFair:      {"Optimize instance sizes", "Implement reserved instances", "Review storage costs"},
			StatusGood:      {"Fine-tune auto-scaling policies", "Implement spot instances"},
			StatusExcellent: {"Maintain cost optimization", "Consider advanced pricing models"},
		},
	}
}

// Lookup returns a copy of the recommendations for category at status,
// falling back to FallbackRecommendations when there is no entry.
func (t RecommendationTable) Lookup(category string, status Status) []string {
	if recs, ok := t[category][status]; ok && len(recs) > 0 {
		return append([]string(nil), recs...)
	}
	return append([]string(nil), FallbackRecommendations...)
}

// Has reports whether the table has content for category.
func (t RecommendationTable) Has(category string) bool {
	_, ok := t[category]
	return ok
}

// Uncovered returns the categories, in the given order, that have no entry
// in the table and so receive FallbackRecommendations.
func (t RecommendationTable) Uncovered(categories []string) []string {
	var out []string
	for _, c := range categories {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// LoadRecommendations reads a YAML table of the form
//
//	Security:
//	  poor: ["...", "..."]
//	  excellent: ["..."]
func LoadRecommendations(path string) (RecommendationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recommendations: %w", err)
	}
	return ParseRecommendations(data)
}

// ParseRecommendations decodes a YAML recommendation table, rejecting
// unknown status names.
func ParseRecommendations(data []byte) (RecommendationTable, error) {
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse recommendations: %w", err)
	}
	table := make(RecommendationTable, len(raw))
	for category, byStatus := range raw {
		entry := make(map[Status][]string, len(byStatus))
		for name, recs := range byStatus {
			st := Status(name)
			if st.Rank() < 0 {
				return nil, fmt.Errorf("parse recommendations: category %q: unknown status %q", category, name)
			}
			entry[st] = recs
		}
		table[category] = entry
	}
	return table, nil
}
