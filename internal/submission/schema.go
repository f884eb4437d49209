package submission

import (
	"encoding/json"
	"fmt"

	"techflow-careers/internal/common/validation"
	"techflow-careers/internal/models"
)

// applicationSchemaTemplate is filled with the option code lists at init.
const applicationSchemaTemplate = `{
	"type": "object",
	"required": ["personalInfo", "experience", "documents", "questions", "preferences"],
	"properties": {
		"personalInfo": {
			"type": "object",
			"required": ["firstName", "lastName", "email", "phone", "location"],
			"properties": {
				"firstName": {"type": "string", "minLength": 1, "maxLength": 100},
				"lastName":  {"type": "string", "minLength": 1, "maxLength": 100},
				"email":     {"type": "string", "format": "email"},
				"phone":     {"type": "string", "minLength": 1, "maxLength": 40},
				"location":  {"type": "string", "minLength": 1, "maxLength": 200},
				"portfolio": {"type": "string", "maxLength": 500},
				"linkedin":  {"type": "string", "maxLength": 500}
			}
		},
		"experience": {
			"type": "object",
			"required": ["currentRole", "experience", "availability"],
			"properties": {
				"currentRole":  {"type": "string", "minLength": 1, "maxLength": 200},
				"company":      {"type": "string", "maxLength": 200},
				"experience":   {"type": "string", "enum": %s},
				"salary":       {"type": "string", "maxLength": 100},
				"availability": {"type": "string", "enum": %s}
			}
		},
		"documents": {
			"type": "object",
			"required": ["resume"],
			"properties": {
				"resume":      {"$ref": "#/definitions/document"},
				"coverLetter": {"$ref": "#/definitions/document"},
				"portfolio":   {"$ref": "#/definitions/document"}
			}
		},
		"questions": {
			"type": "object",
			"required": ["whyInterested", "whyCompany"],
			"properties": {
				"whyInterested": {"type": "string", "minLength": 1, "maxLength": 5000},
				"whyCompany":    {"type": "string", "minLength": 1, "maxLength": 5000},
				"experience":    {"type": "string", "maxLength": 5000}
			}
		},
		"preferences": {
			"type": "object",
			"properties": {
				"remote":        {"type": "boolean"},
				"relocation":    {"type": "boolean"},
				"notifications": {"type": "boolean"}
			}
		}
	},
	"definitions": {
		"document": {
			"type": "object",
			"required": ["name", "size"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"size": {"type": "integer", "minimum": 0, "maximum": %d}
			}
		}
	}
}`

var applicationSchema = validation.MustCompile(buildApplicationSchema())

func buildApplicationSchema() string {
	experience, _ := json.Marshal(models.OptionValues(models.ExperienceOptions))
	availability, _ := json.Marshal(models.OptionValues(models.AvailabilityOptions))
	return fmt.Sprintf(applicationSchemaTemplate, experience, availability, models.MaxDocumentSize)
}

// ValidateApplication checks a record against the application schema.
func ValidateApplication(data *models.ApplicationData) (*validation.ValidationResult, error) {
	return applicationSchema.Validate(data)
}
