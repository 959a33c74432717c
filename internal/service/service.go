package service

import (
	"errors"
	"fmt"

	"github.com/careerbuddy/careerbuddy/internal/models"
	"github.com/careerbuddy/careerbuddy/internal/repository"
	"github.com/careerbuddy/careerbuddy/internal/token"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	tokens *token.Service
	log    *logrus.Logger
}

// NewService initializes a new service
func NewService(repo *repository.Repository, tokens *token.Service, log *logrus.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

// Register creates a new user with a hashed password. The duplicate check runs
// before any hashing so a taken email fails fast.
func (s *Service) Register(email, password string, fullName *string) (*models.User, error) {
	if _, err := s.repo.FindUserByEmail(email); err == nil {
		return nil, models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashed),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a signed bearer token. Unknown email
// and wrong password produce the same error so neither case is revealed.
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return signed, nil
}

// CreateJob adds a posting to the shared catalog
func (s *Service) CreateJob(job *models.Job) error {
	if err := s.repo.CreateJob(job); err != nil {
		return err
	}
	s.log.Infof("Job created: %d %s at %s", job.ID, job.Title, job.Company)
	return nil
}

// GetJob fetches a single posting
func (s *Service) GetJob(id int) (*models.Job, error) {
	return s.repo.GetJob(id)
}

// ListJobs returns the filtered, paginated catalog
func (s *Service) ListJobs(opts repository.ListJobsOptions) ([]*models.Job, error) {
	return s.repo.ListJobs(opts)
}

// UpdateJob applies a sparse patch to a posting
func (s *Service) UpdateJob(id int, patch *models.JobPatch) (*models.Job, error) {
	job, err := s.repo.UpdateJob(id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Job updated: %d", id)
	return job, nil
}

// DeleteJob removes a posting and, via cascade, every application against it
func (s *Service) DeleteJob(id int) error {
	if err := s.repo.DeleteJob(id); err != nil {
		return err
	}
	s.log.Infof("Job deleted: %d", id)
	return nil
}

// CreateApplication records an application for the authenticated user
func (s *Service) CreateApplication(user *models.User, app *models.Application) error {
	if err := s.repo.CreateApplication(user.ID, app); err != nil {
		return err
	}
	s.log.Infof("Application created: %d by user %d for job %d", app.ID, user.ID, app.JobID)
	return nil
}

// ListApplications returns the authenticated user's applications
func (s *Service) ListApplications(user *models.User) ([]*models.Application, error) {
	return s.repo.ListApplicationsForUser(user.ID)
}

// UpdateApplication patches one of the authenticated user's applications
func (s *Service) UpdateApplication(user *models.User, id int, patch *models.ApplicationPatch) (*models.Application, error) {
	app, err := s.repo.UpdateApplication(id, user.ID, patch)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Application updated: %d by user %d", id, user.ID)
	return app, nil
}

// DeleteApplication removes one of the authenticated user's applications
func (s *Service) DeleteApplication(user *models.User, id int) error {
	if err := s.repo.DeleteApplication(id, user.ID); err != nil {
		return err
	}
	s.log.Infof("Application deleted: %d by user %d", id, user.ID)
	return nil
}
