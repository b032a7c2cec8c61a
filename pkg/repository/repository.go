package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/jobtracker/pkg/models"
)

// ErrNotFound is returned by mutating methods when no record has the given id.
var ErrNotFound = errors.New("not found")

// ApplicationRepo is the public contract for the job application store;
// the concrete implementation lives under internal/.
type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.JobApplication) (int64, error)
	// GetApplication returns nil, nil when the id does not exist.
	GetApplication(ctx context.Context, id int64) (*models.JobApplication, error)
	ListApplications(ctx context.Context) ([]models.JobApplication, error)
	UpdateApplication(ctx context.Context, a *models.JobApplication) error
	DeleteApplication(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
}
