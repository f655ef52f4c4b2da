package models

import "github.com/Ramsey-B/sorrel/pkg/normalizers"

// Place is a resolved geographic place
type Place struct {
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	AlternateNames []string   `json:"alternate_names"`
	RegistryID     string     `json:"registry_id"`
	GeonamesID     string     `json:"geonames_id"`
	WikidataID     string     `json:"wikidata_id"`
	MatchScore     float64    `json:"match_score"`
	Confidence     Confidence `json:"confidence"`
	MentionCount   int        `json:"mention_count"`
}

// IdentityKey is the registry id when known, else the normalized name
func (p Place) IdentityKey() string {
	if p.RegistryID != "" {
		return "id:" + p.RegistryID
	}
	return "name:" + normalizers.NormalizePlace(p.Name)
}

// Merge reconciles p (first seen) with other. Names use the longest value,
// identifiers never overwrite and alternate names are unioned.
func (p Place) Merge(other Place) (Place, []MergeConflict) {
	var conflicts []MergeConflict
	merged := p

	merged.Name = mergeStrings("name", p.Name, other.Name, MergeStrategyLongestValue, &conflicts)
	merged.Type = mergeStrings("type", p.Type, other.Type, MergeStrategyFirstValue, &conflicts)
	merged.RegistryID = mergeStrings("registry_id", p.RegistryID, other.RegistryID, MergeStrategyNoOverwrite, &conflicts)
	merged.GeonamesID = mergeStrings("geonames_id", p.GeonamesID, other.GeonamesID, MergeStrategyNoOverwrite, &conflicts)
	merged.WikidataID = mergeStrings("wikidata_id", p.WikidataID, other.WikidataID, MergeStrategyNoOverwrite, &conflicts)
	merged.AlternateNames = unionStrings(p.AlternateNames, other.AlternateNames)
	merged.MatchScore = maxFloat(p.MatchScore, other.MatchScore)
	merged.Confidence = bestConfidence(p.Confidence, other.Confidence)
	merged.MentionCount = p.MentionCount + other.MentionCount

	key := merged.IdentityKey()
	for i := range conflicts {
		conflicts[i].Entity = "place"
		conflicts[i].Key = key
	}
	return merged, conflicts
}
