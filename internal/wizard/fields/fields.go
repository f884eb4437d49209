// Package fields holds the leaf form inputs rendered by the application
// wizard steps. Fields carry values only; they never validate.
package fields

import (
	"fmt"
	"strings"

	"techflow-careers/internal/models"
)

type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindTel
	KindURL
	KindTextArea
	KindSelect
	KindCheckbox
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindTextArea:
		return "textarea"
	case KindSelect:
		return "select"
	default:
		return k.InputType()
	}
}

// InputType is the HTML input type for single-line kinds.
func (k Kind) InputType() string {
	switch k {
	case KindEmail:
		return "email"
	case KindTel:
		return "tel"
	case KindURL:
		return "url"
	case KindCheckbox:
		return "checkbox"
	case KindFile:
		return "file"
	default:
		return "text"
	}
}

// Field is the view model of one form input.
type Field struct {
	Kind        Kind
	Name        string
	Label       string
	Placeholder string
	Description string
	Required    bool
	Value       string
	Checked     bool
	Options     []models.Option
	Rows        int
	File        *FileInfo
	Accept      string
}

// FileInfo describes an uploaded document for display.
type FileInfo struct {
	Name   string
	SizeMB string
}

func Text(name, label, placeholder, value string, required bool) Field {
	return Field{Kind: KindText, Name: name, Label: label, Placeholder: placeholder, Value: value, Required: required}
}

func Email(name, label, placeholder, value string, required bool) Field {
	return Field{Kind: KindEmail, Name: name, Label: label, Placeholder: placeholder, Value: value, Required: required}
}

func Tel(name, label, placeholder, value string, required bool) Field {
	return Field{Kind: KindTel, Name: name, Label: label, Placeholder: placeholder, Value: value, Required: required}
}

func URL(name, label, placeholder, value string) Field {
	return Field{Kind: KindURL, Name: name, Label: label, Placeholder: placeholder, Value: value}
}

func TextArea(name, label, placeholder, value string, rows int, required bool) Field {
	return Field{Kind: KindTextArea, Name: name, Label: label, Placeholder: placeholder, Value: value, Rows: rows, Required: required}
}

func Select(name, label, placeholder, value string, options []models.Option, required bool) Field {
	return Field{Kind: KindSelect, Name: name, Label: label, Placeholder: placeholder, Value: value, Options: options, Required: required}
}

func Checkbox(name, label, description string, checked bool) Field {
	return Field{Kind: KindCheckbox, Name: name, Label: label, Description: description, Checked: checked}
}

// File builds an upload input for a document slot; doc may be nil.
func File(slot models.DocumentSlot, description string, doc *models.Document, required bool) Field {
	f := Field{
		Kind:        KindFile,
		Name:        string(slot),
		Label:       slot.Label(),
		Description: description,
		Required:    required,
		Accept:      strings.Join(models.AcceptedDocumentExtensions, ","),
	}
	if doc != nil {
		f.File = &FileInfo{Name: doc.Name, SizeMB: fmt.Sprintf("%.2f MB", doc.SizeMB())}
	}
	return f
}

// Selected reports whether opt is the field's current value.
func (f Field) Selected(opt models.Option) bool {
	return f.Value == opt.Value
}

// Values is the read side of a submitted form; url.Values satisfies it.
type Values interface {
	Get(key string) string
}

// String returns the trimmed value of name.
func String(form Values, name string) string {
	return strings.TrimSpace(form.Get(name))
}

// Choice returns the value of name if it is one of options, else "".
func Choice(form Values, name string, options []models.Option) string {
	v := String(form, name)
	for _, o := range options {
		if o.Value == v {
			return v
		}
	}
	return ""
}

// Bool reports whether the checkbox name was ticked.
func Bool(form Values, name string) bool {
	switch strings.ToLower(String(form, name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
