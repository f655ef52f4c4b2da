package merging

import "github.com/Ramsey-B/sorrel/pkg/models"

// keyed is implemented by every mergeable entity record
type keyed[T any] interface {
	IdentityKey() string
	Merge(other T) (T, []models.MergeConflict)
}

// dedupeByKey merges records sharing an identity key, keeping first-seen order
func dedupeByKey[T keyed[T]](records []T) ([]T, []models.MergeConflict) {
	var conflicts []models.MergeConflict
	out := make([]T, 0, len(records))
	index := make(map[string]int, len(records))

	for _, r := range records {
		key := r.IdentityKey()
		if j, ok := index[key]; ok {
			merged, c := out[j].Merge(r)
			out[j] = merged
			conflicts = append(conflicts, c...)
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out, conflicts
}

// DeduplicatePlaces merges places sharing an identity key
func DeduplicatePlaces(places []models.Place) ([]models.Place, []models.MergeConflict) {
	return dedupeByKey(places)
}

// DeduplicateOrganizations merges organizations sharing an identity key
func DeduplicateOrganizations(orgs []models.Organization) ([]models.Organization, []models.MergeConflict) {
	return dedupeByKey(orgs)
}
