package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &c, nil
}

// Validate returns one message per problem found.
func (c *Catalog) Validate() []string {
	var problems []string
	seen := make(map[string]bool, len(c.Careers))

	for i, career := range c.Careers {
		ref := fmt.Sprintf("careers[%d]", i)
		if career.ID == "" {
			problems = append(problems, ref+": id is required")
		} else if seen[career.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate id %q", ref, career.ID))
		}
		seen[career.ID] = true

		if strings.TrimSpace(career.Title) == "" {
			problems = append(problems, ref+": title is required")
		}
		if strings.TrimSpace(career.Department) == "" {
			problems = append(problems, ref+": department is required")
		}
		if !careerTypes[career.Type] {
			problems = append(problems, fmt.Sprintf("%s: unknown type %q", ref, career.Type))
		}
		if _, err := time.Parse("2006-01-02", career.PostedDate); err != nil {
			problems = append(problems, fmt.Sprintf("%s: postedDate %q is not YYYY-MM-DD", ref, career.PostedDate))
		}
		if s := career.Salary; s != nil && (s.Min < 0 || s.Min > s.Max) {
			problems = append(problems, fmt.Sprintf("%s: salary range %d-%d is invalid", ref, s.Min, s.Max))
		}
	}
	return problems
}

func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
