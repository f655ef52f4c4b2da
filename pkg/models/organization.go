package models

import "github.com/Ramsey-B/sorrel/pkg/normalizers"

// Organization is a resolved club, choir, parish or similar body
type Organization struct {
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	AlternateNames []string   `json:"alternate_names"`
	Place          string     `json:"place"`
	RegistryID     string     `json:"registry_id"`
	MatchScore     float64    `json:"match_score"`
	Confidence     Confidence `json:"confidence"`
	MentionCount   int        `json:"mention_count"`
}

// IdentityKey is the registry id when known, else the normalized name
func (o Organization) IdentityKey() string {
	if o.RegistryID != "" {
		return "id:" + o.RegistryID
	}
	return "name:" + normalizers.NormalizePlace(o.Name)
}

// Merge reconciles o (first seen) with other
func (o Organization) Merge(other Organization) (Organization, []MergeConflict) {
	var conflicts []MergeConflict
	merged := o

	merged.Name = mergeStrings("name", o.Name, other.Name, MergeStrategyLongestValue, &conflicts)
	merged.Type = mergeStrings("type", o.Type, other.Type, MergeStrategyFirstValue, &conflicts)
	merged.Place = mergeStrings("place", o.Place, other.Place, MergeStrategyPreferNonEmpty, &conflicts)
	merged.RegistryID = mergeStrings("registry_id", o.RegistryID, other.RegistryID, MergeStrategyNoOverwrite, &conflicts)
	merged.AlternateNames = unionStrings(o.AlternateNames, other.AlternateNames)
	merged.MatchScore = maxFloat(o.MatchScore, other.MatchScore)
	merged.Confidence = bestConfidence(o.Confidence, other.Confidence)
	merged.MentionCount = o.MentionCount + other.MentionCount

	key := merged.IdentityKey()
	for i := range conflicts {
		conflicts[i].Entity = "organization"
		conflicts[i].Key = key
	}
	return merged, conflicts
}
