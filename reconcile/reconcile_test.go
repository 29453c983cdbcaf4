package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltrack/volunteer"
)

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Tom Peacock Tom Peacock":       "Tom Peacock",
		"tom peacock TOM PEACOCK":       "tom peacock",
		"  Mary Ann Lee Mary Ann Lee  ": "Mary Ann Lee",
		"Tom Tom":                       "Tom Tom",
		"Anna Maria Jones Smith":        "Anna Maria Jones Smith",
		"Jo Jo Jo":                      "Jo Jo Jo",
	}
	for input, want := range tests {
		assert.Equal(t, want, CleanName(input), "input %q", input)
	}
}

func TestScrubEmergencyContact(t *testing.T) {
	t.Parallel()

	sameName := ScrubEmergencyContact(Candidate{Name: "Jane Doe", EmergencyContact: "jane doe"})
	assert.Empty(t, sameName.EmergencyContact)

	samePhone := ScrubEmergencyContact(Candidate{Name: "Jane Doe", Phone: "0400 111 222", EmergencyContact: "0400 111 222"})
	assert.Empty(t, samePhone.EmergencyContact)

	// Phone comparison is verbatim: different spacing is kept.
	spaced := ScrubEmergencyContact(Candidate{Name: "Jane Doe", Phone: "0400111222", EmergencyContact: "0400 111 222"})
	assert.Equal(t, "0400 111 222", spaced.EmergencyContact)

	kept := ScrubEmergencyContact(Candidate{Name: "Jane Doe", Phone: "111", EmergencyContact: "John Doe 222"})
	assert.Equal(t, "John Doe 222", kept.EmergencyContact)
}

func TestApplyCreatesWithDefaults(t *testing.T) {
	t.Parallel()

	reg := volunteer.NewRegistry()
	outcome, err := Apply(reg, Candidate{Name: "Tom Peacock Tom Peacock", Phone: "0400", EmergencyContact: "0400"})
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, outcome.Action)
	assert.Equal(t, "Tom Peacock", outcome.Volunteer.Name)
	assert.Equal(t, volunteer.NotAvailable, outcome.Volunteer.EmergencyContact)
	assert.Equal(t, volunteer.NotAvailable, outcome.Volunteer.Email)
	assert.Equal(t, 1, reg.Len())
}

func TestApplyDifferentPhoneAndEmailCreatesNewVolunteer(t *testing.T) {
	t.Parallel()

	reg := volunteer.NewRegistry()
	_, err := reg.AddVolunteer(volunteer.Fields{Name: "Jane Doe", Phone: "222", Email: "k@x.com"})
	require.NoError(t, err)

	outcome, err := Apply(reg, Candidate{Name: "Jane Doe", Phone: "111", Email: "j@x.com"})
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, outcome.Action)
	assert.Equal(t, 2, reg.Len())
}

func TestApplyOnlyConsidersFirstNamesake(t *testing.T) {
	t.Parallel()

	reg := volunteer.NewRegistry()
	_, err := reg.AddVolunteer(volunteer.Fields{Name: "Jane Doe", Phone: "222", Email: "a@x.com"})
	require.NoError(t, err)
	second, err := reg.AddVolunteer(volunteer.Fields{Name: "Jane Doe", Phone: "333", Email: "b@x.com"})
	require.NoError(t, err)

	outcome, err := Apply(reg, Candidate{Name: "Jane Doe", Phone: "333", Email: "b@x.com", Suburb: "Newtown"})
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, outcome.Action)
	assert.NotEqual(t, second.ID, outcome.Volunteer.ID)
	assert.Equal(t, 3, reg.Len())

	untouched, ok := reg.Volunteer(second.ID)
	require.True(t, ok)
	assert.Equal(t, volunteer.NotAvailable, untouched.Suburb)
}

func TestApplyMergesOnlyGaps(t *testing.T) {
	t.Parallel()

	reg := volunteer.NewRegistry()
	existing, err := reg.AddVolunteer(volunteer.Fields{Name: "Jane Doe", Phone: "222", Email: "k@x.com"})
	require.NoError(t, err)

	outcome, err := Apply(reg, Candidate{Name: "jane doe", Address: "1 Main St", Phone: "999"})
	require.NoError(t, err)

	assert.Equal(t, ActionMerged, outcome.Action)
	assert.Equal(t, []string{"address"}, outcome.Filled)
	assert.Equal(t, existing.ID, outcome.Volunteer.ID)
	assert.Equal(t, "1 Main St", outcome.Volunteer.Address)
	assert.Equal(t, "222", outcome.Volunteer.Phone, "populated phone must not be overwritten")
	assert.Equal(t, 1, reg.Len())
}

func TestApplyOneDifferingIdentifierStillMerges(t *testing.T) {
	t.Parallel()

	reg := volunteer.NewRegistry()
	_, err := reg.AddVolunteer(volunteer.Fields{Name: "Jane Doe", Phone: "222", Email: "j@x.com"})
	require.NoError(t, err)

	outcome, err := Apply(reg, Candidate{Name: "Jane Doe", Phone: "111", Email: "j@x.com", Suburb: "Newtown"})
	require.NoError(t, err)

	assert.Equal(t, ActionMerged, outcome.Action)
	assert.Equal(t, 1, reg.Len())
}

func TestApplyNothingToFillIsUnchanged(t *testing.T) {
	t.Parallel()

	reg := volunteer.NewRegistry()
	_, err := reg.AddVolunteer(volunteer.Fields{Name: "Jane Doe", Phone: "222"})
	require.NoError(t, err)

	outcome, err := Apply(reg, Candidate{Name: "Jane Doe", Phone: "333"})
	require.NoError(t, err)

	assert.Equal(t, ActionUnchanged, outcome.Action)
	assert.Empty(t, outcome.Filled)
}

func TestApplyRejectsBlankName(t *testing.T) {
	t.Parallel()

	_, err := Apply(volunteer.NewRegistry(), Candidate{Name: "   "})
	require.ErrorIs(t, err, volunteer.ErrNameRequired)
}
