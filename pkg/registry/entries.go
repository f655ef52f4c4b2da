// Package registry holds the curated reference registries of persons,
// places, organizations and roles as one immutable snapshot
package registry

import "github.com/Ramsey-B/sorrel/pkg/models"

// PersonEntry is one known person
type PersonEntry struct {
	ID            string `yaml:"id" json:"id" db:"id"`
	Forename      string `yaml:"forename" json:"forename" db:"forename"`
	Familyname    string `yaml:"familyname" json:"familyname" db:"familyname"`
	AlternateName string `yaml:"alternate_name" json:"alternate_name" db:"alternate_name"`
	Title         string `yaml:"title" json:"title" db:"title"`
	Role          string `yaml:"role" json:"role" db:"role"`
	Place         string `yaml:"place" json:"place" db:"associated_place"`
	Organisation  string `yaml:"organisation" json:"organisation" db:"associated_organisation"`
}

// PlaceEntry is one known place
type PlaceEntry struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Type           string   `yaml:"type" json:"type"`
	AlternateNames []string `yaml:"alternate_names" json:"alternate_names"`
	GeonamesID     string   `yaml:"geonames_id" json:"geonames_id"`
	WikidataID     string   `yaml:"wikidata_id" json:"wikidata_id"`
}

// OrganizationEntry is one known organization
type OrganizationEntry struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Type           string   `yaml:"type" json:"type"`
	AlternateNames []string `yaml:"alternate_names" json:"alternate_names"`
	Place          string   `yaml:"place" json:"place"`
}

// RoleEntry is one controlled-vocabulary role with its schema code
type RoleEntry struct {
	Role     string   `yaml:"role" json:"role"`
	Schema   string   `yaml:"schema" json:"schema"`
	Synonyms []string `yaml:"synonyms" json:"synonyms"`
}

// Data is the raw content of all registries as read from a source
type Data struct {
	Persons       []PersonEntry       `yaml:"persons" json:"persons"`
	Places        []PlaceEntry        `yaml:"places" json:"places"`
	Organizations []OrganizationEntry `yaml:"organizations" json:"organizations"`
	Roles         []RoleEntry         `yaml:"roles" json:"roles"`
}

func (e PersonEntry) toModel() models.Person {
	return models.Person{
		Forename:               e.Forename,
		Familyname:             e.Familyname,
		AlternateName:          e.AlternateName,
		Title:                  e.Title,
		Role:                   e.Role,
		AssociatedPlace:        e.Place,
		AssociatedOrganisation: e.Organisation,
		RegistryID:             e.ID,
	}
}

func (e PlaceEntry) toModel() models.Place {
	return models.Place{
		Name:           e.Name,
		Type:           e.Type,
		AlternateNames: append([]string(nil), e.AlternateNames...),
		RegistryID:     e.ID,
		GeonamesID:     e.GeonamesID,
		WikidataID:     e.WikidataID,
	}
}

func (e OrganizationEntry) toModel() models.Organization {
	return models.Organization{
		Name:           e.Name,
		Type:           e.Type,
		AlternateNames: append([]string(nil), e.AlternateNames...),
		Place:          e.Place,
		RegistryID:     e.ID,
	}
}
