package fields

import (
	"net/url"
	"testing"

	"techflow-careers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestChoice_NormalisesUnknownValues(t *testing.T) {
	form := url.Values{"experience": {"4-5"}, "availability": {"next-year"}}

	assert.Equal(t, "4-5", Choice(form, "experience", models.ExperienceOptions))
	assert.Equal(t, "", Choice(form, "availability", models.AvailabilityOptions))
	assert.Equal(t, "", Choice(form, "missing", models.AvailabilityOptions))
}

func TestBool(t *testing.T) {
	form := url.Values{"remote": {"on"}, "relocation": {"false"}}

	assert.True(t, Bool(form, "remote"))
	assert.False(t, Bool(form, "relocation"))
	assert.False(t, Bool(form, "notifications"))
}

func TestString_Trims(t *testing.T) {
	assert.Equal(t, "John", String(url.Values{"firstName": {"  John "}}, "firstName"))
}

func TestFile_DescribesUpload(t *testing.T) {
	f := File(models.SlotResume, "PDF, DOC or DOCX", &models.Document{Name: "cv.pdf", Size: 1572864}, true)

	assert.Equal(t, KindFile, f.Kind)
	assert.Equal(t, "Resume", f.Label)
	assert.Equal(t, ".pdf,.doc,.docx", f.Accept)
	if assert.NotNil(t, f.File) {
		assert.Equal(t, "cv.pdf", f.File.Name)
		assert.Equal(t, "1.50 MB", f.File.SizeMB)
	}

	assert.Nil(t, File(models.SlotPortfolio, "", nil, false).File)
}

func TestKind_InputType(t *testing.T) {
	assert.Equal(t, "email", KindEmail.InputType())
	assert.Equal(t, "tel", KindTel.InputType())
	assert.Equal(t, "text", KindText.InputType())
}
