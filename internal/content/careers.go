// Package content serves the careers catalog to the web layer: reads from
// PostgreSQL behind a Redis cache, and full-text search via Elasticsearch.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"techflow-careers/internal/common/database"
	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/common/metrics"
	"techflow-careers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	careerColumns = `id, title, department, location, employment_type, experience, description,
		requirements, benefits, salary_min, salary_max, salary_currency, active, featured,
		to_char(posted_date, 'YYYY-MM-DD')`

	listCareersQuery = `SELECT ` + careerColumns + ` FROM careers WHERE active = TRUE ORDER BY posted_date DESC, id`
	getCareerQuery   = `SELECT ` + careerColumns + ` FROM careers WHERE id = $1`

	upsertCareerQuery = `
		INSERT INTO careers (id, title, department, location, employment_type, experience, description,
			requirements, benefits, salary_min, salary_max, salary_currency, active, featured, posted_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			location = EXCLUDED.location,
			employment_type = EXCLUDED.employment_type,
			experience = EXCLUDED.experience,
			description = EXCLUDED.description,
			requirements = EXCLUDED.requirements,
			benefits = EXCLUDED.benefits,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency,
			active = EXCLUDED.active,
			featured = EXCLUDED.featured,
			posted_date = EXCLUDED.posted_date`

	listCacheKey     = "careers:active"
	careerCacheKeyFm = "careers:%s"
)

// Repository reads careers from PostgreSQL with cache-aside in Redis. The
// cache is optional.
type Repository struct {
	db       *sql.DB
	cache    redis.Cmdable
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewRepository(db *sql.DB, cache redis.Cmdable, cacheTTL time.Duration, log logger.Logger) *Repository {
	return &Repository{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "careers"}),
	}
}

// ListCareers returns every active career, newest first.
func (r *Repository) ListCareers(ctx context.Context) ([]models.Career, error) {
	var careers []models.Career
	if r.fromCache(ctx, listCacheKey, &careers) {
		return careers, nil
	}

	rows, err := r.db.QueryContext(ctx, listCareersQuery)
	if err != nil {
		return nil, apperrors.NewCareerQueryFailedError(err)
	}
	defer rows.Close()

	careers = []models.Career{}
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, apperrors.NewCareerQueryFailedError(err)
		}
		careers = append(careers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewCareerQueryFailedError(err)
	}

	r.toCache(ctx, listCacheKey, careers)
	return careers, nil
}

// GetCareer returns the career with id, active or not. Unknown ids yield
// CAREER_NOT_FOUND.
func (r *Repository) GetCareer(ctx context.Context, id string) (*models.Career, error) {
	key := fmt.Sprintf(careerCacheKeyFm, id)

	var cached models.Career
	if r.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	c, err := scanCareer(r.db.QueryRowContext(ctx, getCareerQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewCareerNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewCareerQueryFailedError(err)
	}

	r.toCache(ctx, key, c)
	return c, nil
}

// Upsert writes c and drops the cached entries it affects.
func (r *Repository) Upsert(ctx context.Context, c models.Career) error {
	requirements, _ := json.Marshal(nonNil(c.Requirements))
	benefits, _ := json.Marshal(nonNil(c.Benefits))

	var salaryMin, salaryMax sql.NullInt64
	var currency sql.NullString
	if c.Salary != nil {
		salaryMin = sql.NullInt64{Int64: int64(c.Salary.Min), Valid: true}
		salaryMax = sql.NullInt64{Int64: int64(c.Salary.Max), Valid: true}
		currency = sql.NullString{String: c.Salary.Currency, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, upsertCareerQuery,
		c.ID, c.Title, c.Department, c.Location, c.Type, c.Experience, c.Description,
		requirements, benefits, salaryMin, salaryMax, currency, c.IsActive, c.Featured, c.PostedDate,
	); err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("upsert career %s: %w", c.ID, err))
	}

	if r.cache != nil {
		if err := r.cache.Del(ctx, listCacheKey, fmt.Sprintf(careerCacheKeyFm, c.ID)).Err(); err != nil {
			r.logger.Warn("failed to invalidate career cache", map[string]interface{}{"careerId": c.ID, "error": err})
		}
	}
	return nil
}

func (r *Repository) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if r.cache == nil {
		return false
	}
	err := database.GetJSON(ctx, r.cache, key, dest)
	switch {
	case err == nil:
		metrics.CareerCacheLookups.WithLabelValues("hit").Inc()
		return true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.CareerCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CareerCacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("career cache read failed", map[string]interface{}{"key": key, "error": err})
	}
	return false
}

func (r *Repository) toCache(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := database.SetJSON(ctx, r.cache, key, value, r.cacheTTL); err != nil {
		r.logger.Warn("career cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCareer(row rowScanner) (*models.Career, error) {
	var (
		c                      models.Career
		requirements, benefits []byte
		salaryMin, salaryMax   sql.NullInt64
		currency               sql.NullString
	)
	if err := row.Scan(
		&c.ID, &c.Title, &c.Department, &c.Location, &c.Type, &c.Experience, &c.Description,
		&requirements, &benefits, &salaryMin, &salaryMax, &currency, &c.IsActive, &c.Featured, &c.PostedDate,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(requirements, &c.Requirements); err != nil {
		return nil, fmt.Errorf("decode requirements of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(benefits, &c.Benefits); err != nil {
		return nil, fmt.Errorf("decode benefits of %s: %w", c.ID, err)
	}
	if salaryMin.Valid && salaryMax.Valid {
		c.Salary = &models.Salary{
			Min:      int(salaryMin.Int64),
			Max:      int(salaryMax.Int64),
			Currency: currency.String,
		}
	}
	return &c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
