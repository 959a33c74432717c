package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/careerbuddy/careerbuddy/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO users (email, full_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRow(query, user.Email, user.FullName, user.PasswordHash, user.CreatedAt).
		Scan(&user.ID)
	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, full_name, password_hash, created_at
		FROM users
		WHERE email = $1`
	var fullName sql.NullString
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &fullName, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	return user, nil
}
