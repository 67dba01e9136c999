package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/swipe-api/internal/db"
)

var allGenders = []string{db.GenderMale, db.GenderFemale, db.GenderNonBinary, db.GenderOther}

func TestViewerAccepts_Matrix(t *testing.T) {
	want := map[string]map[string]bool{
		db.PreferenceMen:       {db.GenderMale: true},
		db.PreferenceWomen:     {db.GenderFemale: true},
		db.PreferenceNonBinary: {db.GenderNonBinary: true},
		db.PreferenceEveryone:  {db.GenderMale: true, db.GenderFemale: true, db.GenderNonBinary: true, db.GenderOther: true},
	}

	for pref, accepted := range want {
		for _, g := range allGenders {
			assert.Equal(t, accepted[g], ViewerAccepts([]string{pref}, g), "pref=%s gender=%s", pref, g)
		}
	}

	for _, g := range allGenders {
		assert.False(t, ViewerAccepts(nil, g), "empty preferences must accept nobody (%s)", g)
	}
}

func TestCandidateAccepts_Matrix(t *testing.T) {
	want := map[string]map[string]bool{
		db.PreferenceMen:       {db.GenderMale: true, db.GenderNonBinary: true, db.GenderOther: true},
		db.PreferenceWomen:     {db.GenderFemale: true, db.GenderNonBinary: true, db.GenderOther: true},
		db.PreferenceNonBinary: {db.GenderNonBinary: true},
		db.PreferenceEveryone:  {db.GenderMale: true, db.GenderFemale: true, db.GenderNonBinary: true, db.GenderOther: true},
	}

	for pref, accepted := range want {
		for _, g := range allGenders {
			assert.Equal(t, accepted[g], CandidateAccepts([]string{pref}, g), "pref=%s viewer=%s", pref, g)
		}
	}

	for _, g := range allGenders {
		assert.False(t, CandidateAccepts([]string{}, g))
	}
}

func TestCompatible_IsTwoSided(t *testing.T) {
	man := &db.User{Gender: db.GenderMale, LookingForGenders: []string{db.PreferenceWomen}}
	womanForMen := &db.User{Gender: db.GenderFemale, LookingForGenders: []string{db.PreferenceMen}}
	womanForWomen := &db.User{Gender: db.GenderFemale, LookingForGenders: []string{db.PreferenceWomen}}

	assert.True(t, Compatible(man, womanForMen))
	assert.True(t, Compatible(womanForMen, man))
	assert.False(t, Compatible(man, womanForWomen))
	assert.False(t, Compatible(womanForWomen, man))
}

func TestGenderFilter(t *testing.T) {
	assert.Nil(t, genderFilter([]string{db.PreferenceEveryone, db.PreferenceMen}))
	assert.Equal(t, []string{db.GenderMale, db.GenderNonBinary}, genderFilter([]string{db.PreferenceNonBinary, db.PreferenceMen}))
	assert.NotNil(t, genderFilter(nil))
	assert.Empty(t, genderFilter(nil))
}
