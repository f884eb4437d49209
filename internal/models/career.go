package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Career is an open position listed on the careers page.
type Career struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Type         string   `json:"type"` // full-time, part-time, contract, internship
	Experience   string   `json:"experience"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Benefits     []string `json:"benefits"`
	Salary       *Salary  `json:"salary,omitempty"`
	IsActive     bool     `json:"isActive"`
	Featured     bool     `json:"featured"`
	PostedDate   string   `json:"postedDate"`
}

type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// String renders the range as "$120,000 - $180,000" for USD, otherwise with
// the currency code as prefix.
func (s Salary) String() string {
	prefix := s.Currency + " "
	if s.Currency == "USD" || s.Currency == "" {
		prefix = "$"
	}
	return fmt.Sprintf("%s%s - %s%s", prefix, groupThousands(s.Min), prefix, groupThousands(s.Max))
}

func groupThousands(n int) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CareerListing is the careers page view: active careers split into
// featured and regular, each sorted newest first.
type CareerListing struct {
	Featured []Career `json:"featured"`
	Regular  []Career `json:"regular"`
}

// Total counts every listed career.
func (l CareerListing) Total() int {
	return len(l.Featured) + len(l.Regular)
}

// NewCareerListing drops inactive careers and partitions the rest.
func NewCareerListing(careers []Career) CareerListing {
	listing := CareerListing{Featured: []Career{}, Regular: []Career{}}
	for _, c := range careers {
		if !c.IsActive {
			continue
		}
		if c.Featured {
			listing.Featured = append(listing.Featured, c)
		} else {
			listing.Regular = append(listing.Regular, c)
		}
	}
	newestFirst := func(cs []Career) {
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].PostedDate > cs[j].PostedDate })
	}
	newestFirst(listing.Featured)
	newestFirst(listing.Regular)
	return listing
}
