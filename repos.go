package bmc

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bmc/pkg/database"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTransaction(fn func(*gorm.DB) error) error
	connect() (*gorm.DB, error)
}

type repository struct {
	db   *gorm.DB
	conf database.Configuration
}

func newRepository(dir string) *repository {
	return &repository{conf: database.GetDatabase(database.LIBRARY_DB).At(dir)}
}

// do whatever within a separate transaction
func (r *repository) WithTransaction(fn func(conn *gorm.DB) error) error {
	if _, err := r.connect(); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func (r *repository) connect() (*gorm.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := database.Open(r.conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}
	r.db = db
	return db, nil
}

// SettingsRepo persists settings by key.
type SettingsRepo struct {
	Repository
}

func (r *SettingsRepo) Get(key string) (string, bool, error) {
	var s database.Setting
	err := r.WithTransaction(func(d *gorm.DB) error {
		return d.Where("name = ?", key).Limit(1).Find(&s).Error
	})
	if err != nil {
		return "", false, errors.Wrap(err, "failed to find setting")
	}
	return s.Value, s.Name != "", nil
}

// Set stores a setting after checking it names a known key and a value the
// settings accept.
func (r *SettingsRepo) Set(key, value string) error {
	s := DefaultSettings()
	if err := s.Set(key, value); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return r.WithTransaction(func(d *gorm.DB) error {
		q := d.Clauses(clause.OnConflict{
			UpdateAll: true,
		}).Create(&database.Setting{Name: key, Value: value})

		if err := q.Error; err != nil {
			return errors.Wrap(err, "failed to store setting")
		}
		return nil
	})
}

func (r *SettingsRepo) Remove(key ...string) error {
	return r.WithTransaction(func(d *gorm.DB) error {
		q := d.Where("name IN ?", key).Delete(&database.Setting{})
		if err := q.Error; err != nil {
			return errors.Wrap(err, "failed to remove setting(s)")
		}
		return nil
	})
}

func (r *SettingsRepo) List() (map[string]string, error) {
	var settings []database.Setting
	err := r.WithTransaction(func(d *gorm.DB) error {
		return d.Order("name").Find(&settings).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list settings")
	}

	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Name] = s.Value
	}
	return m, nil
}

// Overlay applies the stored settings on top of s.
func (r *SettingsRepo) Overlay(s *Settings) error {
	m, err := r.List()
	if err != nil {
		return err
	}
	if err := s.Apply(m); err != nil {
		return errors.Wrap(err, "stored settings")
	}
	return nil
}

// LibraryRepo stores transcriptions. Lookups by serial are cached.
type LibraryRepo struct {
	Repository
	cache *expirable.LRU[string, *database.Transcription]
}

// Add stores r under name and returns its new serial.
func (l *LibraryRepo) Add(name string, r *Result) (*database.Transcription, error) {
	md, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal metadata")
	}

	t := &database.Transcription{
		Serial:   uuid.NewString(),
		Name:     name,
		Hash:     r.Hash,
		Input:    r.Input,
		Output:   r.Text,
		Metadata: md,
	}
	return t, l.WithTransaction(func(d *gorm.DB) error {
		if err := d.Create(t).Error; err != nil {
			return errors.Wrap(err, "failed to create transcription")
		}
		l.cache.Add(t.Serial, t)
		return nil
	})
}

// Find lists the transcriptions whose name matches one of the glob patterns,
// newest first. No pattern lists everything.
func (l *LibraryRepo) Find(patterns ...string) ([]*database.Transcription, error) {
	var ts []*database.Transcription
	return ts, l.WithTransaction(func(d *gorm.DB) error {
		q := d.Omit("input", "output").Order("created_at DESC, id DESC")
		if len(patterns) > 0 {
			var (
				conds []string
				args  []any
			)
			for _, p := range patterns {
				conds = append(conds, "name LIKE ? ESCAPE '\\'")
				args = append(args, globToSQLLike(p))
			}
			q = q.Where(strings.Join(conds, " OR "), args...)
		}
		if err := q.Find(&ts).Error; err != nil {
			return errors.Wrap(err, "failed to find transcriptions")
		}
		return nil
	})
}

// Get returns the transcription whose serial starts with prefix. The prefix
// must be unambiguous.
func (l *LibraryRepo) Get(prefix string) (*database.Transcription, error) {
	if t, ok := l.cache.Get(prefix); ok {
		return t, nil
	}

	var ts []*database.Transcription
	err := l.WithTransaction(func(d *gorm.DB) error {
		q := d.Where("serial LIKE ? ESCAPE '\\'", globToSQLLike(prefix)+"%").Limit(2).Find(&ts)
		if err := q.Error; err != nil {
			return errors.Wrap(err, "failed to find transcription")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch len(ts) {
	case 0:
		return nil, errors.Errorf("no transcription %s", prefix)
	case 1:
		l.cache.Add(ts[0].Serial, ts[0])
		return ts[0], nil
	}
	return nil, errors.Errorf("serial prefix %s is ambiguous", prefix)
}

// Lookup returns the newest transcription of the same input and options.
func (l *LibraryRepo) Lookup(hash string) (*database.Transcription, bool, error) {
	var ts []*database.Transcription
	err := l.WithTransaction(func(d *gorm.DB) error {
		return d.Where(&database.Transcription{Hash: hash}).Order("id DESC").Limit(1).Find(&ts).Error
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to look up transcription")
	}
	if len(ts) == 0 {
		return nil, false, nil
	}
	return ts[0], true, nil
}

func (l *LibraryRepo) Remove(serial ...string) error {
	return l.WithTransaction(func(d *gorm.DB) error {
		q := d.Where("serial IN ?", serial).Delete(&database.Transcription{})
		if err := q.Error; err != nil {
			return errors.Wrap(err, "failed to remove transcription(s)")
		}
		for _, s := range serial {
			l.cache.Remove(s)
		}
		return nil
	})
}

// TranscriptionMetadata decodes the metadata stored with t.
func TranscriptionMetadata(t *database.Transcription) (Metadata, error) {
	var md Metadata
	if len(t.Metadata) == 0 {
		return md, nil
	}
	return md, errors.Wrap(json.Unmarshal(t.Metadata, &md), "invalid metadata")
}

// Store opens the settings and library repositories of one database.
type Store struct {
	Settings *SettingsRepo
	Library  *LibraryRepo
}

// NewStore keeps its database in dir, or in memory for database.InMemory.
func NewStore(dir string) *Store {
	repo := newRepository(dir)
	return &Store{
		Settings: &SettingsRepo{Repository: repo},
		Library: &LibraryRepo{
			Repository: repo,
			cache:      expirable.NewLRU[string, *database.Transcription](128, nil, 10*time.Minute),
		},
	}
}

func globToSQLLike(glob string) string {
	// Escape SQL LIKE wildcards
	glob = strings.ReplaceAll(glob, "\\", "\\\\")
	glob = strings.ReplaceAll(glob, "%", "\\%")
	glob = strings.ReplaceAll(glob, "_", "\\_")
	// Convert glob wildcards to SQL LIKE
	glob = strings.ReplaceAll(glob, "*", "%")
	glob = strings.ReplaceAll(glob, "?", "_")
	return glob
}
