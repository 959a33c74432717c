package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/careerbuddy/careerbuddy/internal/models"
)

const jobColumns = "id, title, company, location, url, notes, category, priority, deadline, salary_range, created_at, updated_at"

// ListJobsOptions narrows and pages the shared job catalog
type ListJobsOptions struct {
	Skip     int
	Limit    int
	Category string
	Priority string
	Search   string
}

// CreateJob creates a new job in the shared catalog
func (r *Repository) CreateJob(job *models.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Priority == "" {
		job.Priority = models.PriorityMedium
	}
	query := `
		INSERT INTO jobs (title, company, location, url, notes, category, priority, deadline, salary_range, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.db.QueryRow(query,
		job.Title, job.Company, job.Location, job.URL, job.Notes, job.Category,
		string(job.Priority), job.Deadline, job.SalaryRange, job.CreatedAt, job.UpdatedAt).
		Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by id
func (r *Repository) GetJob(id int) (*models.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE id = $1", jobColumns)
	job, err := scanJob(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns the filtered catalog ordered newest first.
// Category and priority filters are exact matches ANDed together; search is a
// case-insensitive substring match over title, company, location and notes.
func (r *Repository) ListJobs(opts ListJobsOptions) ([]*models.Job, error) {
	// Negative paging values mean different things to the two drivers
	// (sqlite reads LIMIT -1 as unlimited, postgres rejects it); clamp
	// so both return nothing rather than diverge
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	var conds []string
	var args []any

	if opts.Category != "" {
		args = append(args, opts.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.Priority != "" {
		args = append(args, opts.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+strings.ToLower(opts.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(LOWER(title) LIKE $%d OR LOWER(company) LIKE $%d OR LOWER(COALESCE(location, '')) LIKE $%d OR LOWER(COALESCE(notes, '')) LIKE $%d)",
			n, n, n, n))
	}

	query := fmt.Sprintf("SELECT %s FROM jobs", jobColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, opts.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	args = append(args, opts.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJob applies a sparse patch; nil fields keep their stored values
func (r *Repository) UpdateJob(id int, patch *models.JobPatch) (*models.Job, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Company != nil {
		set("company", *patch.Company)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.URL != nil {
		set("url", *patch.URL)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.Deadline != nil {
		set("deadline", *patch.Deadline)
	}
	if patch.SalaryRange != nil {
		set("salary_range", *patch.SalaryRange)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE jobs SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), jobColumns)

	job, err := scanJob(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// DeleteJob removes a job; dependent applications go with it via cascade
func (r *Repository) DeleteJob(id int) error {
	res, err := r.db.Exec("DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	job := &models.Job{}
	var location, url, notes, category, salaryRange sql.NullString
	var deadline sql.NullTime
	err := row.Scan(&job.ID, &job.Title, &job.Company, &location, &url, &notes,
		&category, &job.Priority, &deadline, &salaryRange, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if location.Valid {
		job.Location = &location.String
	}
	if url.Valid {
		job.URL = &url.String
	}
	if notes.Valid {
		job.Notes = &notes.String
	}
	if category.Valid {
		job.Category = &category.String
	}
	if salaryRange.Valid {
		job.SalaryRange = &salaryRange.String
	}
	if deadline.Valid {
		t := deadline.Time
		job.Deadline = &t
	}
	return job, nil
}
