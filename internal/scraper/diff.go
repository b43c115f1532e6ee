package scraper

import "aptwatcher/services/store"

// Diff computes the new-listings delta for the current run. fresh preserves
// the first-seen order of current and collapses duplicate identifiers to
// their first occurrence. updated is seen plus the identifier of every
// listing in current; the input set is left untouched.
func Diff(current []Listing, seen store.SeenSet) (fresh []Listing, updated store.SeenSet) {
	fresh = []Listing{}
	updated = seen.Clone()

	for _, listing := range current {
		if !updated.Has(listing.Id) {
			fresh = append(fresh, listing)
		}
		updated.Add(listing.Id)
	}

	return fresh, updated
}
