package registry

import (
	"iter"
	"slices"

	"github.com/Ramsey-B/sorrel/pkg/fingerprint"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// Snapshot is the read-only view of all registries for one batch run. It is
// built once and shared by every worker; nothing mutates it after NewSnapshot.
type Snapshot struct {
	persons       []models.Person
	places        []models.Place
	organizations []models.Organization
	roles         []RoleEntry

	placeIDs map[string]int
	orgIDs   map[string]int
	orgNames map[string]int
	version  string
}

// NewSnapshot indexes data into a snapshot
func NewSnapshot(data Data) *Snapshot {
	s := &Snapshot{
		placeIDs: make(map[string]int),
		orgIDs:   make(map[string]int),
		orgNames: make(map[string]int),
	}

	for _, e := range data.Persons {
		s.persons = append(s.persons, e.toModel())
	}
	for i, e := range data.Places {
		s.places = append(s.places, e.toModel())
		for _, id := range []string{e.ID, e.GeonamesID, e.WikidataID} {
			if id != "" {
				s.placeIDs[id] = i
			}
		}
	}
	for i, e := range data.Organizations {
		s.organizations = append(s.organizations, e.toModel())
		if e.ID != "" {
			s.orgIDs[e.ID] = i
		}
		for _, name := range append([]string{e.Name}, e.AlternateNames...) {
			if key := normalizers.NormalizePlace(name); key != "" {
				if _, exists := s.orgNames[key]; !exists {
					s.orgNames[key] = i
				}
			}
		}
	}
	for _, r := range data.Roles {
		r.Synonyms = append([]string(nil), r.Synonyms...)
		s.roles = append(s.roles, r)
	}

	// snapshot data is plain strings, it always marshals
	s.version, _ = fingerprint.Of(data)
	return s
}

// Empty returns a snapshot without entries
func Empty() *Snapshot {
	return NewSnapshot(Data{})
}

// Version is a content hash of the registry data
func (s *Snapshot) Version() string {
	return s.version
}

// Persons iterates over copies of the known persons
func (s *Snapshot) Persons() iter.Seq[models.Person] {
	return slices.Values(s.persons)
}

// Places iterates over copies of the known places
func (s *Snapshot) Places() iter.Seq[models.Place] {
	return slices.Values(s.places)
}

// Organizations iterates over copies of the known organizations
func (s *Snapshot) Organizations() iter.Seq[models.Organization] {
	return slices.Values(s.organizations)
}

// Roles iterates over the registry roles
func (s *Snapshot) Roles() iter.Seq[RoleEntry] {
	return slices.Values(s.roles)
}

// Counts returns the number of entries per registry
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"persons":       len(s.persons),
		"places":        len(s.places),
		"organizations": len(s.organizations),
		"roles":         len(s.roles),
	}
}

// PlaceByID finds a place by its registry, GeoNames or Wikidata id
func (s *Snapshot) PlaceByID(id string) (models.Place, bool) {
	i, ok := s.placeIDs[id]
	if !ok {
		return models.Place{}, false
	}
	return s.places[i], true
}

// OrganizationByID finds an organization by registry id
func (s *Snapshot) OrganizationByID(id string) (models.Organization, bool) {
	i, ok := s.orgIDs[id]
	if !ok {
		return models.Organization{}, false
	}
	return s.organizations[i], true
}

// OrganizationByName finds an organization whose normalized name or
// alternate name equals name
func (s *Snapshot) OrganizationByName(name string) (models.Organization, bool) {
	i, ok := s.orgNames[normalizers.NormalizePlace(name)]
	if !ok {
		return models.Organization{}, false
	}
	return s.organizations[i], true
}
