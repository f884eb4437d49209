package catalog

import "techflow-careers/internal/models"

// Catalog is the on-disk list of career postings loaded into PostgreSQL and
// Elasticsearch by the careers-indexer tool.
type Catalog struct {
	Version     string          `json:"version"`
	LastUpdated string          `json:"lastUpdated"`
	Careers     []models.Career `json:"careers"`
}

var careerTypes = map[string]bool{
	"full-time":  true,
	"part-time":  true,
	"contract":   true,
	"internship": true,
}
