package wizard

import (
	"strings"

	"techflow-careers/internal/models"
)

// MissingFields lists the required fields of step that are empty in data.
// Names match the form field names.
func MissingFields(step Step, data *models.ApplicationData) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch step {
	case StepPersonalInfo:
		p := data.PersonalInfo
		check("firstName", p.FirstName)
		check("lastName", p.LastName)
		check("email", p.Email)
		check("phone", p.Phone)
		check("location", p.Location)
	case StepExperience:
		e := data.Experience
		check("currentRole", e.CurrentRole)
		check("experience", e.Experience)
		check("availability", e.Availability)
	case StepDocuments:
		if data.Documents.Resume == nil {
			missing = append(missing, string(models.SlotResume))
		}
	case StepQuestions:
		q := data.Questions
		check("whyInterested", q.WhyInterested)
		check("whyCompany", q.WhyCompany)
	}
	return missing
}

// ValidateStep reports whether every required field of step is filled in.
func ValidateStep(step Step, data *models.ApplicationData) bool {
	return len(MissingFields(step, data)) == 0
}

// firstInvalidStep returns the first step up to and including last that
// fails validation.
func firstInvalidStep(last Step, data *models.ApplicationData) (Step, bool) {
	for s := StepPersonalInfo; s <= last; s++ {
		if !ValidateStep(s, data) {
			return s, true
		}
	}
	return 0, false
}
