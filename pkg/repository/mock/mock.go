package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
)

// ApplicationRepo is an in-memory repository.ApplicationRepo for tests.
// Setting Err makes every method fail with it.
type ApplicationRepo struct {
	mu     sync.Mutex
	nextID int64
	Stored map[int64]models.JobApplication
	Err    error

	// Commits counts successful mutating calls.
	Commits int
}

var _ repository.ApplicationRepo = (*ApplicationRepo)(nil)

func NewApplicationRepo() *ApplicationRepo {
	return &ApplicationRepo{Stored: map[int64]models.JobApplication{}}
}

func (m *ApplicationRepo) CreateApplication(ctx context.Context, a *models.JobApplication) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	m.Stored[stored.ID] = stored
	m.Commits++
	return stored.ID, nil
}

func (m *ApplicationRepo) GetApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Stored[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *ApplicationRepo) ListApplications(ctx context.Context) ([]models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.JobApplication
	for _, a := range m.Stored {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *ApplicationRepo) UpdateApplication(ctx context.Context, a *models.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Stored[a.ID]; !ok {
		return fmt.Errorf("application %d: %w", a.ID, repository.ErrNotFound)
	}
	m.Stored[a.ID] = *a
	m.Commits++
	return nil
}

func (m *ApplicationRepo) DeleteApplication(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Stored[id]; !ok {
		return fmt.Errorf("application %d: %w", id, repository.ErrNotFound)
	}
	delete(m.Stored, id)
	m.Commits++
	return nil
}

func (m *ApplicationRepo) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := models.StatusCounts{}
	for _, a := range m.Stored {
		counts[a.Status]++
	}
	return counts, nil
}
