package discover

import (
	"slices"

	"github.com/oggyb/swipe-api/internal/db"
)

// preferenceFor maps a gender to the preference label that selects it.
// Other has no label of its own; only Everyone reaches it.
var preferenceFor = map[string]string{
	db.GenderMale:      db.PreferenceMen,
	db.GenderFemale:    db.PreferenceWomen,
	db.GenderNonBinary: db.PreferenceNonBinary,
}

// ViewerAccepts reports whether a viewer with prefs wants to see gender.
// An empty preference set accepts nobody.
func ViewerAccepts(prefs []string, gender string) bool {
	if slices.Contains(prefs, db.PreferenceEveryone) {
		return true
	}
	label, ok := preferenceFor[gender]
	return ok && slices.Contains(prefs, label)
}

// CandidateAccepts reports whether a candidate with prefs is willing to be
// shown to a viewer of gender.
//
// Non-binary and Other viewers also satisfy candidates seeking Men or Women.
func CandidateAccepts(prefs []string, viewerGender string) bool {
	if ViewerAccepts(prefs, viewerGender) {
		return true
	}
	switch viewerGender {
	case db.GenderNonBinary, db.GenderOther:
		return slices.Contains(prefs, db.PreferenceMen) || slices.Contains(prefs, db.PreferenceWomen)
	}
	return false
}

// Compatible is the two-sided check: each side must accept the other.
func Compatible(viewer, candidate *db.User) bool {
	return ViewerAccepts(viewer.LookingForGenders, candidate.Gender) &&
		CandidateAccepts(candidate.LookingForGenders, viewer.Gender)
}

// genderFilter returns the candidate genders a viewer's preferences admit,
// for pushing down into the store. nil means any gender; an empty slice
// means none.
func genderFilter(prefs []string) []string {
	if slices.Contains(prefs, db.PreferenceEveryone) {
		return nil
	}
	out := []string{}
	for _, g := range []string{db.GenderMale, db.GenderFemale, db.GenderNonBinary} {
		if slices.Contains(prefs, preferenceFor[g]) {
			out = append(out, g)
		}
	}
	return out
}
