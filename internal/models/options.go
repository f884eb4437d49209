package models

import "fmt"

// DocumentSlot names one of the three upload slots.
type DocumentSlot string

const (
	SlotResume      DocumentSlot = "resume"
	SlotCoverLetter DocumentSlot = "coverLetter"
	SlotPortfolio   DocumentSlot = "portfolio"
)

// DocumentSlots lists the slots in display order.
var DocumentSlots = []DocumentSlot{SlotResume, SlotCoverLetter, SlotPortfolio}

// ParseDocumentSlot validates a slot name coming from a form or URL.
func ParseDocumentSlot(s string) (DocumentSlot, error) {
	for _, slot := range DocumentSlots {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown document slot %q", s)
}

// Label is the human-readable slot name used in messages.
func (s DocumentSlot) Label() string {
	switch s {
	case SlotResume:
		return "Resume"
	case SlotCoverLetter:
		return "Cover Letter"
	case SlotPortfolio:
		return "Portfolio"
	}
	return string(s)
}

// AcceptedDocumentExtensions are the upload formats the site accepts.
var AcceptedDocumentExtensions = []string{".pdf", ".doc", ".docx"}

// Option is a select choice: a stored code and its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var ExperienceOptions = []Option{
	{Value: "0-1", Label: "0-1 years"},
	{Value: "2-3", Label: "2-3 years"},
	{Value: "4-5", Label: "4-5 years"},
	{Value: "6-8", Label: "6-8 years"},
	{Value: "9-12", Label: "9-12 years"},
	{Value: "13+", Label: "13+ years"},
}

var AvailabilityOptions = []Option{
	{Value: "immediately", Label: "Immediately"},
	{Value: "2-weeks", Label: "2 weeks notice"},
	{Value: "1-month", Label: "1 month notice"},
	{Value: "2-months", Label: "2 months notice"},
	{Value: "3-months", Label: "3+ months"},
}

// OptionValues returns the codes of opts.
func OptionValues(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// OptionLabel returns the label for value, or value itself if unknown.
func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
