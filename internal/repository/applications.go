package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/careerbuddy/careerbuddy/internal/models"
)

const applicationColumns = "id, user_id, job_id, status, applied_at, updated_at"

// CreateApplication records an application for the given user. The owner is a
// mandatory parameter so a caller cannot write on another user's behalf.
func (r *Repository) CreateApplication(userID int, app *models.Application) error {
	app.UserID = userID
	app.UpdatedAt = time.Now().UTC()
	if app.Status == "" {
		app.Status = models.StatusSaved
	}
	query := `
		INSERT INTO applications (user_id, job_id, status, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(query, app.UserID, app.JobID, string(app.Status), app.AppliedAt, app.UpdatedAt).
		Scan(&app.ID)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// ListApplicationsForUser returns the caller's applications in insertion order
func (r *Repository) ListApplicationsForUser(userID int) ([]*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications WHERE user_id = $1 ORDER BY id", applicationColumns)
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// GetApplication fetches by id scoped to the owner. A record that exists but
// belongs to someone else is reported as not found.
func (r *Repository) GetApplication(id, userID int) (*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications WHERE id = $1 AND user_id = $2", applicationColumns)
	app, err := scanApplication(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// UpdateApplication applies a sparse patch scoped to the owner
func (r *Repository) UpdateApplication(id, userID int, patch *models.ApplicationPatch) (*models.Application, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.AppliedAt != nil {
		set("applied_at", *patch.AppliedAt)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	idN := len(args)
	args = append(args, userID)
	query := fmt.Sprintf("UPDATE applications SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), idN, len(args), applicationColumns)

	app, err := scanApplication(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// DeleteApplication removes an application scoped to the owner
func (r *Repository) DeleteApplication(id, userID int) error {
	res, err := r.db.Exec("DELETE FROM applications WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	app := &models.Application{}
	var appliedAt sql.NullTime
	err := row.Scan(&app.ID, &app.UserID, &app.JobID, &app.Status, &appliedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if appliedAt.Valid {
		t := appliedAt.Time
		app.AppliedAt = &t
	}
	return app, nil
}
