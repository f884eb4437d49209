package models

import (
	"path/filepath"
	"strings"
	"time"
)

// MaxDocumentSize is the upload limit for every document slot (5 MiB).
const MaxDocumentSize int64 = 5 * 1024 * 1024

// ApplicationData is the aggregate record a candidate builds up across the
// four application wizard steps.
type ApplicationData struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   Experience   `json:"experience"`
	Documents    Documents    `json:"documents"`
	Questions    Questions    `json:"questions"`
	Preferences  Preferences  `json:"preferences"`
}

type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Portfolio string `json:"portfolio,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Experience struct {
	CurrentRole  string `json:"currentRole"`
	Company      string `json:"company"`
	Experience   string `json:"experience"`
	Salary       string `json:"salary"`
	Availability string `json:"availability"`
}

// Document is an uploaded file. Content is never serialized; it is stored
// separately from the JSON record.
type Document struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

// SizeMB reports the size in megabytes for display.
func (d *Document) SizeMB() float64 {
	return float64(d.Size) / (1024 * 1024)
}

// Extension returns the lower-cased file extension including the dot.
func (d *Document) Extension() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

type Documents struct {
	Resume      *Document `json:"resume,omitempty"`
	CoverLetter *Document `json:"coverLetter,omitempty"`
	Portfolio   *Document `json:"portfolio,omitempty"`
}

// Get returns the document in slot, or nil.
func (d Documents) Get(slot DocumentSlot) *Document {
	switch slot {
	case SlotResume:
		return d.Resume
	case SlotCoverLetter:
		return d.CoverLetter
	case SlotPortfolio:
		return d.Portfolio
	}
	return nil
}

// Set stores doc in slot; a nil doc clears it. Unknown slots are ignored.
func (d *Documents) Set(slot DocumentSlot, doc *Document) {
	switch slot {
	case SlotResume:
		d.Resume = doc
	case SlotCoverLetter:
		d.CoverLetter = doc
	case SlotPortfolio:
		d.Portfolio = doc
	}
}

type Questions struct {
	WhyInterested string `json:"whyInterested"`
	WhyCompany    string `json:"whyCompany"`
	Experience    string `json:"experience"`
}

type Preferences struct {
	Remote        bool `json:"remote"`
	Relocation    bool `json:"relocation"`
	Notifications bool `json:"notifications"`
}

// NewApplicationData returns the initial record: everything empty except
// Preferences.Notifications, which starts out true.
func NewApplicationData() *ApplicationData {
	return &ApplicationData{
		Preferences: Preferences{Notifications: true},
	}
}

// Clone returns a deep copy, including document contents.
func (a *ApplicationData) Clone() *ApplicationData {
	out := *a
	out.Documents = Documents{
		Resume:      a.Documents.Resume.clone(),
		CoverLetter: a.Documents.CoverLetter.clone(),
		Portfolio:   a.Documents.Portfolio.clone(),
	}
	return &out
}

func (d *Document) clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Content != nil {
		out.Content = append([]byte(nil), d.Content...)
	}
	return &out
}

// ApplicationRecord is a persisted submission.
type ApplicationRecord struct {
	ID          string           `json:"id"`
	JobID       string           `json:"jobId"`
	Email       string           `json:"email"`
	Data        *ApplicationData `json:"data"`
	Status      string           `json:"status"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

const (
	StatusSubmitted = "submitted"
)
