package merging

import "github.com/Ramsey-B/sorrel/pkg/models"

// Reconcile folds freshly extracted persons into those of a prior run of the
// same document. Prior records keep their position and fields; fresh records
// only fill gaps. Mention counts take the maximum so re-running never
// inflates them.
func (e *Engine) Reconcile(prior, fresh []models.Person) ([]models.Person, []models.MergeConflict) {
	out := append([]models.Person(nil), prior...)
	var conflicts []models.MergeConflict

	for _, f := range fresh {
		j, swapped, ok := e.findPrior(f, out)
		if !ok {
			out = append(out, f)
			continue
		}
		if swapped {
			f = f.Swapped()
		}
		merged, c := out[j].Merge(f)
		merged.MentionCount = max(out[j].MentionCount, f.MentionCount)
		out[j] = merged
		conflicts = append(conflicts, c...)
	}
	return out, conflicts
}

func (e *Engine) findPrior(f models.Person, prior []models.Person) (int, bool, bool) {
	key := f.IdentityKey()
	for j, p := range prior {
		if p.IdentityKey() == key {
			return j, false, true
		}
	}
	return e.Find(f, prior)
}

// ReconcilePlaces folds fresh places into prior ones by identity key
func ReconcilePlaces(prior, fresh []models.Place) []models.Place {
	return reconcileByKey(prior, fresh, func(merged *models.Place, a, b models.Place) {
		merged.MentionCount = max(a.MentionCount, b.MentionCount)
	})
}

// ReconcileOrganizations folds fresh organizations into prior ones by identity key
func ReconcileOrganizations(prior, fresh []models.Organization) []models.Organization {
	return reconcileByKey(prior, fresh, func(merged *models.Organization, a, b models.Organization) {
		merged.MentionCount = max(a.MentionCount, b.MentionCount)
	})
}

// ReconcileDates folds fresh dates into prior ones keeping the larger count
func ReconcileDates(prior, fresh []models.DateRecord) []models.DateRecord {
	out := append([]models.DateRecord(nil), prior...)
	index := make(map[string]int, len(out))
	for i, d := range out {
		index[d.Key()] = i
	}
	for _, d := range fresh {
		if j, ok := index[d.Key()]; ok {
			out[j].Count = max(out[j].Count, d.Count)
			if out[j].DayMonthYear == "" {
				out[j].DayMonthYear = d.DayMonthYear
			}
			continue
		}
		index[d.Key()] = len(out)
		out = append(out, d)
	}
	return out
}

// ReconcileEvents keeps prior events and appends fresh ones not already
// present by name and date
func ReconcileEvents(prior, fresh []models.Event) []models.Event {
	out := append([]models.Event(nil), prior...)
	seen := make(map[string]bool, len(out))
	for _, ev := range out {
		seen[eventKey(ev)] = true
	}
	for _, ev := range fresh {
		if seen[eventKey(ev)] {
			continue
		}
		seen[eventKey(ev)] = true
		out = append(out, ev)
	}
	return out
}

func eventKey(ev models.Event) string {
	return ev.Name + "\x00" + ev.Date
}

func reconcileByKey[T keyed[T]](prior, fresh []T, counts func(merged *T, a, b T)) []T {
	out := append([]T(nil), prior...)
	index := make(map[string]int, len(out))
	for i, r := range out {
		index[r.IdentityKey()] = i
	}
	for _, f := range fresh {
		key := f.IdentityKey()
		j, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, f)
			continue
		}
		merged, _ := out[j].Merge(f)
		counts(&merged, out[j], f)
		out[j] = merged
	}
	return out
}
