package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dotcommander/tokencraft/internal/migration"
)

// Repository abstracts profile persistence. Implementations are not safe for
// concurrent writers; callers own the single-writer discipline.
type Repository interface {
	// Load returns the stored profile, migrated to the current schema.
	// A missing profile returns a fresh one and created=true.
	Load() (p *Profile, created bool, err error)
	Save(p *Profile) error
}

// FileRepository stores the profile as pretty-printed JSON at a fixed path,
// migrating stale documents on load.
type FileRepository struct {
	Path      string
	UserEmail string

	engine *migration.Engine
	now    func() time.Time

	// LastMigration holds the validation result of the most recent on-load
	// migration, nil when the stored document was already current.
	LastMigration *migration.Result
}

// NewFileRepository builds a repository rooted at path.
func NewFileRepository(path, userEmail string) *FileRepository {
	return &FileRepository{
		Path:      path,
		UserEmail: userEmail,
		engine:    migration.NewEngine(),
		now:       time.Now,
	}
}

// Load reads, migrates, and decodes the stored profile.
func (r *FileRepository) Load() (*Profile, bool, error) {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(r.UserEmail, r.now()), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read profile: %w", err)
	}

	var doc migration.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to parse profile: %w", err)
	}

	doc, result, err := r.engine.MigrateIfNeeded(doc)
	if err != nil {
		return nil, false, fmt.Errorf("failed to migrate profile: %w", err)
	}
	r.LastMigration = result
	if result != nil && !result.Valid {
		return nil, false, fmt.Errorf("migrated profile is invalid: %v", result.Errors)
	}

	migrated, err := json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-encode profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(migrated, &p); err != nil {
		return nil, false, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, false, nil
}

// Save writes the profile atomically: temp file in the same directory, then
// rename over the target.
func (r *FileRepository) Save(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp profile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp profile: %w", err)
	}
	if err := os.Rename(tmpName, r.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}
