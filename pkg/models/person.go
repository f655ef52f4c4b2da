package models

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// Person is one resolved real-world person within a document
type Person struct {
	Forename               string     `json:"forename"`
	Familyname             string     `json:"familyname"`
	AlternateName          string     `json:"alternate_name"`
	Title                  string     `json:"title"`
	Role                   string     `json:"role"`
	RoleSchema             string     `json:"role_schema"`
	AssociatedPlace        string     `json:"associated_place"`
	AssociatedOrganisation string     `json:"associated_organisation"`
	RegistryID             string     `json:"registry_id"`
	MatchScore             float64    `json:"match_score"`
	Confidence             Confidence `json:"confidence"`
	MentionCount           int        `json:"mention_count"`
	RecipientScore         float64    `json:"recipient_score"`
}

// IdentityKey is the registry id when known, else the normalized forename|familyname
func (p Person) IdentityKey() string {
	if p.RegistryID != "" {
		return "id:" + p.RegistryID
	}
	return "name:" + normalizers.NormalizeName(p.Forename) + "|" + normalizers.NormalizeName(p.Familyname)
}

// HasName reports whether either name field is populated
func (p Person) HasName() bool {
	return strings.TrimSpace(p.Forename) != "" || strings.TrimSpace(p.Familyname) != ""
}

// FullName joins the populated name fields
func (p Person) FullName() string {
	return strings.TrimSpace(strings.Join(strings.Fields(p.Forename+" "+p.Familyname), " "))
}

// Swapped returns a copy with forename and familyname exchanged
func (p Person) Swapped() Person {
	p.Forename, p.Familyname = p.Familyname, p.Forename
	return p
}

// Completeness counts populated descriptive fields
func (p Person) Completeness() int {
	n := 0
	for _, v := range []string{p.Forename, p.Familyname, p.AlternateName, p.Title, p.Role, p.RegistryID} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// Merge reconciles p (first seen) with other field by field and returns the
// merged record. Non-empty wins, the longer of two populated values wins and
// equal lengths keep p's value. Unequal alternate names are never merged;
// a conflict is returned instead.
func (p Person) Merge(other Person) (Person, []MergeConflict) {
	var conflicts []MergeConflict
	merged := p

	merged.Forename = mergeStrings("forename", p.Forename, other.Forename, MergeStrategyLongestValue, &conflicts)
	merged.Familyname = mergeStrings("familyname", p.Familyname, other.Familyname, MergeStrategyLongestValue, &conflicts)
	merged.Title = mergeStrings("title", p.Title, other.Title, MergeStrategyLongestValue, &conflicts)
	merged.AlternateName = mergeStrings("alternate_name", p.AlternateName, other.AlternateName, MergeStrategyNoOverwrite, &conflicts)
	merged.RegistryID = mergeStrings("registry_id", p.RegistryID, other.RegistryID, MergeStrategyNoOverwrite, &conflicts)
	merged.AssociatedPlace = mergeStrings("associated_place", p.AssociatedPlace, other.AssociatedPlace, MergeStrategyPreferNonEmpty, &conflicts)
	merged.AssociatedOrganisation = mergeStrings("associated_organisation", p.AssociatedOrganisation, other.AssociatedOrganisation, MergeStrategyPreferNonEmpty, &conflicts)

	// first detected role wins and carries its schema code
	if p.Role == "" && other.Role != "" {
		merged.Role = other.Role
		merged.RoleSchema = other.RoleSchema
	} else if merged.RoleSchema == "" && strings.EqualFold(p.Role, other.Role) {
		merged.RoleSchema = other.RoleSchema
	}

	merged.MatchScore = maxFloat(p.MatchScore, other.MatchScore)
	merged.Confidence = bestConfidence(p.Confidence, other.Confidence)
	merged.RecipientScore = maxFloat(p.RecipientScore, other.RecipientScore)
	merged.MentionCount = p.MentionCount + other.MentionCount

	key := merged.IdentityKey()
	for i := range conflicts {
		conflicts[i].Entity = "person"
		conflicts[i].Key = key
	}
	return merged, conflicts
}

// Fill treats p as the authoritative record and only fills its empty fields
// from the mention. Scores stay p's; mention counts add up.
func (p Person) Fill(mention Person) Person {
	filled := p
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&filled.Forename, mention.Forename)
	fill(&filled.Familyname, mention.Familyname)
	fill(&filled.AlternateName, mention.AlternateName)
	fill(&filled.Title, mention.Title)
	if filled.Role == "" {
		filled.Role = mention.Role
		filled.RoleSchema = mention.RoleSchema
	}
	fill(&filled.AssociatedPlace, mention.AssociatedPlace)
	fill(&filled.AssociatedOrganisation, mention.AssociatedOrganisation)
	filled.RecipientScore = maxFloat(p.RecipientScore, mention.RecipientScore)
	filled.MentionCount = p.MentionCount + mention.MentionCount
	return filled
}
