package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrVersionNotFound = errors.New("resume version not found")

// VersionStore keeps resume snapshots for the lifetime of the process. Versions are
// immutable once saved and are listed in save order.
type VersionStore interface {
	Save(name, content string) models.ResumeVersion
	List() []models.ResumeVersion
	Get(id string) (models.ResumeVersion, error)
}

type versionStore struct {
	mu       sync.RWMutex
	versions []models.ResumeVersion
	byID     map[string]int
	now      func() time.Time
}

func NewVersionStore() VersionStore {
	return &versionStore{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

// Save stores a new snapshot. An empty name becomes "Version N", N being the new
// number of stored versions.
func (s *versionStore) Save(name, content string) models.ResumeVersion {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Version %d", len(s.versions)+1)
	}

	id := uuid.NewString()
	for _, taken := s.byID[id]; taken; _, taken = s.byID[id] {
		id = uuid.NewString()
	}

	version := models.ResumeVersion{
		ID:        id,
		Name:      name,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	s.byID[id] = len(s.versions)
	s.versions = append(s.versions, version)

	return version
}

// List returns a copy, so callers cannot reorder or replace stored versions.
func (s *versionStore) List() []models.ResumeVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ResumeVersion, len(s.versions))
	copy(out, s.versions)
	return out
}

func (s *versionStore) Get(id string) (models.ResumeVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return models.ResumeVersion{}, ErrVersionNotFound
	}
	return s.versions[idx], nil
}
