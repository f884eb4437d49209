package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationData_Defaults(t *testing.T) {
	data := NewApplicationData()

	assert.True(t, data.Preferences.Notifications)
	assert.False(t, data.Preferences.Remote)
	assert.False(t, data.Preferences.Relocation)
	assert.Equal(t, PersonalInfo{}, data.PersonalInfo)
	assert.Equal(t, Experience{}, data.Experience)
	assert.Equal(t, Documents{}, data.Documents)
	assert.Equal(t, Questions{}, data.Questions)
}

func TestApplicationData_CloneIsDeep(t *testing.T) {
	data := NewApplicationData()
	data.PersonalInfo.FirstName = "John"
	data.Documents.Resume = &Document{Name: "cv.pdf", Size: 3, Content: []byte("pdf")}

	clone := data.Clone()
	clone.PersonalInfo.FirstName = "Jane"
	clone.Documents.Resume.Name = "other.pdf"
	clone.Documents.Resume.Content[0] = 'x'

	assert.Equal(t, "John", data.PersonalInfo.FirstName)
	assert.Equal(t, "cv.pdf", data.Documents.Resume.Name)
	assert.Equal(t, []byte("pdf"), data.Documents.Resume.Content)
	assert.Nil(t, clone.Documents.CoverLetter)
}

func TestDocuments_SetTouchesOnlyNamedSlot(t *testing.T) {
	var docs Documents
	doc := &Document{Name: "letter.docx"}

	docs.Set(SlotCoverLetter, doc)

	assert.Same(t, doc, docs.Get(SlotCoverLetter))
	assert.Nil(t, docs.Resume)
	assert.Nil(t, docs.Portfolio)

	docs.Set(SlotCoverLetter, nil)
	assert.Nil(t, docs.CoverLetter)
}

func TestParseDocumentSlot(t *testing.T) {
	slot, err := ParseDocumentSlot("coverLetter")
	require.NoError(t, err)
	assert.Equal(t, SlotCoverLetter, slot)
	assert.Equal(t, "Cover Letter", slot.Label())

	_, err = ParseDocumentSlot("photo")
	assert.Error(t, err)
}

func TestDocument_Extension(t *testing.T) {
	assert.Equal(t, ".docx", (&Document{Name: "Resume.DOCX"}).Extension())
	assert.Equal(t, "", (&Document{Name: "resume"}).Extension())
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "2 weeks notice", OptionLabel(AvailabilityOptions, "2-weeks"))
	assert.Equal(t, "unknown", OptionLabel(AvailabilityOptions, "unknown"))
	assert.Equal(t, []string{"0-1", "2-3", "4-5", "6-8", "9-12", "13+"}, OptionValues(ExperienceOptions))
}

func TestSalary_String(t *testing.T) {
	assert.Equal(t, "$120,000 - $180,000", Salary{Min: 120000, Max: 180000, Currency: "USD"}.String())
	assert.Equal(t, "EUR 900 - EUR 1,500", Salary{Min: 900, Max: 1500, Currency: "EUR"}.String())
}

func TestNewCareerListing(t *testing.T) {
	listing := NewCareerListing([]Career{
		{ID: "1", IsActive: true, Featured: true, PostedDate: "2025-01-15"},
		{ID: "2", IsActive: true, PostedDate: "2025-01-08"},
		{ID: "3", IsActive: true, PostedDate: "2025-01-10"},
		{ID: "4", IsActive: false, Featured: true, PostedDate: "2025-01-20"},
	})

	require.Len(t, listing.Featured, 1)
	assert.Equal(t, "1", listing.Featured[0].ID)
	require.Len(t, listing.Regular, 2)
	assert.Equal(t, "3", listing.Regular[0].ID)
	assert.Equal(t, "2", listing.Regular[1].ID)
	assert.Equal(t, 3, listing.Total())
}
