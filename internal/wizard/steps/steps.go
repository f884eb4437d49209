// Package steps renders each slice of the application record as a wizard
// page and binds submitted forms back into new slice values. Steps never
// validate and never see sibling slices.
package steps

import (
	"techflow-careers/internal/models"
	"techflow-careers/internal/wizard/fields"
)

// View is what every step exposes to the page renderer.
type View interface {
	Title() string
	Description() string
	Fields() []fields.Field
}

// PersonalInfoStep is step 1.
type PersonalInfoStep struct {
	Data models.PersonalInfo
}

func (PersonalInfoStep) Title() string       { return "Personal Information" }
func (PersonalInfoStep) Description() string { return "Tell us about yourself" }

func (s PersonalInfoStep) Fields() []fields.Field {
	d := s.Data
	return []fields.Field{
		fields.Text("firstName", "First Name", "John", d.FirstName, true),
		fields.Text("lastName", "Last Name", "Doe", d.LastName, true),
		fields.Email("email", "Email Address", "john.doe@example.com", d.Email, true),
		fields.Tel("phone", "Phone Number", "+1 (555) 123-4567", d.Phone, true),
		fields.Text("location", "Location", "City, State, Country", d.Location, true),
		fields.URL("portfolio", "Portfolio URL", "https://yourportfolio.com", d.Portfolio),
		fields.URL("linkedin", "LinkedIn Profile", "https://linkedin.com/in/johndoe", d.LinkedIn),
	}
}

func (PersonalInfoStep) Bind(form fields.Values) models.PersonalInfo {
	return models.PersonalInfo{
		FirstName: fields.String(form, "firstName"),
		LastName:  fields.String(form, "lastName"),
		Email:     fields.String(form, "email"),
		Phone:     fields.String(form, "phone"),
		Location:  fields.String(form, "location"),
		Portfolio: fields.String(form, "portfolio"),
		LinkedIn:  fields.String(form, "linkedin"),
	}
}

// ExperienceStep is step 2.
type ExperienceStep struct {
	Data models.Experience
}

func (ExperienceStep) Title() string       { return "Professional Experience" }
func (ExperienceStep) Description() string { return "Tell us about your work experience" }

func (s ExperienceStep) Fields() []fields.Field {
	d := s.Data
	return []fields.Field{
		fields.Text("currentRole", "Current Role", "Senior Software Engineer", d.CurrentRole, true),
		fields.Text("company", "Current Company", "TechCorp Inc.", d.Company, false),
		fields.Select("experience", "Years of Experience", "Select experience level", d.Experience, models.ExperienceOptions, true),
		fields.Text("salary", "Expected Salary", "$80,000 - $120,000", d.Salary, false),
		fields.Select("availability", "Availability", "When can you start?", d.Availability, models.AvailabilityOptions, true),
	}
}

func (ExperienceStep) Bind(form fields.Values) models.Experience {
	return models.Experience{
		CurrentRole:  fields.String(form, "currentRole"),
		Company:      fields.String(form, "company"),
		Experience:   fields.Choice(form, "experience", models.ExperienceOptions),
		Salary:       fields.String(form, "salary"),
		Availability: fields.Choice(form, "availability", models.AvailabilityOptions),
	}
}

// DocumentsStep is step 3. Documents change through uploads, not form
// binding, so it has no Bind.
type DocumentsStep struct {
	Data models.Documents
}

func (DocumentsStep) Title() string       { return "Documents" }
func (DocumentsStep) Description() string { return "Upload your resume and supporting documents" }

func (s DocumentsStep) Fields() []fields.Field {
	d := s.Data
	return []fields.Field{
		fields.File(models.SlotResume, "Upload your latest resume (PDF, DOC, DOCX - Max 5MB)", d.Resume, true),
		fields.File(models.SlotCoverLetter, "Optional cover letter (PDF, DOC, DOCX - Max 5MB)", d.CoverLetter, false),
		fields.File(models.SlotPortfolio, "Additional portfolio or work samples (PDF - Max 5MB)", d.Portfolio, false),
	}
}

// Guidelines are shown under the upload cards.
func (DocumentsStep) Guidelines() []string {
	return []string{
		"Accepted formats: PDF, DOC, DOCX",
		"Maximum file size: 5MB per document",
		"Resume is required, other documents are optional",
		"Ensure your documents are virus-free and readable",
	}
}

// PreferencesMarker is a hidden input rendered with the preference
// checkboxes. Without it a posted form carries no preference state and the
// current preferences are kept.
const PreferencesMarker = "_preferences"

// QuestionsStep is step 4 and owns both Questions and Preferences.
type QuestionsStep struct {
	Data        models.Questions
	Preferences models.Preferences
}

func (QuestionsStep) Title() string { return "Questions & Preferences" }
func (QuestionsStep) Description() string {
	return "Help us understand your motivation and preferences"
}

func (s QuestionsStep) Fields() []fields.Field {
	return append(s.QuestionFields(), s.PreferenceFields()...)
}

func (s QuestionsStep) QuestionFields() []fields.Field {
	d := s.Data
	return []fields.Field{
		fields.TextArea("whyInterested", "Why are you interested in this position?",
			"Tell us what attracts you to this role and how it aligns with your career goals...", d.WhyInterested, 4, true),
		fields.TextArea("whyCompany", "Why do you want to work at TechFlow?",
			"What about our company culture, mission, or values resonates with you...", d.WhyCompany, 4, true),
		fields.TextArea("relevantExperience", "Describe your relevant experience",
			"Share specific examples of your work that demonstrate your qualifications for this role...", d.Experience, 4, false),
	}
}

func (s QuestionsStep) PreferenceFields() []fields.Field {
	p := s.Preferences
	return []fields.Field{
		fields.Checkbox("remote", "I am interested in remote work opportunities", "", p.Remote),
		fields.Checkbox("relocation", "I am willing to relocate for this position", "", p.Relocation),
		fields.Checkbox("notifications", "I would like to receive updates about my application and similar job opportunities", "", p.Notifications),
	}
}

func (QuestionsStep) Bind(form fields.Values) models.Questions {
	return models.Questions{
		WhyInterested: fields.String(form, "whyInterested"),
		WhyCompany:    fields.String(form, "whyCompany"),
		Experience:    fields.String(form, "relevantExperience"),
	}
}

// BindPreferences returns the posted preferences, or ok=false when the form
// did not include the preference checkboxes.
func (QuestionsStep) BindPreferences(form fields.Values) (prefs models.Preferences, ok bool) {
	if form.Get(PreferencesMarker) == "" {
		return models.Preferences{}, false
	}
	return models.Preferences{
		Remote:        fields.Bool(form, "remote"),
		Relocation:    fields.Bool(form, "relocation"),
		Notifications: fields.Bool(form, "notifications"),
	}, true
}
