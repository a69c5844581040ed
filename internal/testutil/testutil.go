// Package testutil holds in-memory collaborators shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/geocoder"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBSource: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Geocoder resolves every address to a fixed Mountain View result unless Err is set.
type Geocoder struct {
	mu    sync.Mutex
	Err   error
	Calls []string
}

func (g *Geocoder) Geocode(_ context.Context, address string) (*geocoder.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, address)
	if g.Err != nil {
		return nil, g.Err
	}
	return &geocoder.Result{
		Longitude:        -122.08089,
		Latitude:         37.4232,
		FormattedAddress: "600 Amphitheatre Pkwy, Mountain View, CA 94043-1368, US",
		City:             "Mountain View",
		State:            "CA",
		Zipcode:          "94043-1368",
		Country:          "US",
	}, nil
}

// Storage records uploads and deletions in memory. OnUpload, when set, runs
// at the start of every Upload outside the lock.
type Storage struct {
	mu        sync.Mutex
	OnUpload  func()
	UploadErr error
	DeleteErr error
	Objects   map[string][]byte
	Deleted   []string
}

func NewStorage() *Storage {
	return &Storage{Objects: make(map[string][]byte)}
}

func (s *Storage) Upload(_ context.Context, files []storage.File) ([]storage.Object, error) {
	if s.OnUpload != nil {
		s.OnUpload()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	out := make([]storage.Object, 0, len(files))
	for _, f := range files {
		key := "restaurants/" + f.Name
		s.Objects[key] = f.Data
		out = append(out, storage.Object{
			Key:      key,
			Location: "https://bucket.s3.amazonaws.com/" + key,
		})
	}
	return out, nil
}

func (s *Storage) Delete(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for _, k := range keys {
		delete(s.Objects, k)
		s.Deleted = append(s.Deleted, k)
	}
	return nil
}
