package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tush00nka/dream_homes/internal/model"
	"tush00nka/dream_homes/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads int
	fail    bool
}

func (s *fakeStorage) UploadFile(ctx context.Context, file io.Reader, filename, contentType string) (*model.FileMetadata, error) {
	if s.fail {
		return nil, errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.uploads++
	n := s.uploads
	s.mu.Unlock()

	return &model.FileMetadata{
		Filename:    filename,
		Size:        int64(len(data)),
		ContentType: contentType,
		URL:         fmt.Sprintf("https://cdn.test/dream-homes/%d/%s", n, filename),
	}, nil
}

type fakeCache struct {
	mu          sync.Mutex
	generation  int64
	lists       map[string][]model.Property
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{lists: make(map[string][]model.Property)}
}

func (c *fakeCache) entry(generation int64, key string) string {
	return fmt.Sprintf("%d:%s", generation, key)
}

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *fakeCache) GetList(ctx context.Context, generation int64, key string) ([]model.Property, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.lists[c.entry(generation, key)]
	return list, ok, nil
}

func (c *fakeCache) SaveList(ctx context.Context, generation int64, key string, properties []model.Property, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[c.entry(generation, key)] = properties
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidated++
	return nil
}

type sentEvent struct {
	userID    uint
	eventType string
	payload   any
}

type fakeNotifier struct {
	events []sentEvent
}

func (n *fakeNotifier) NotifyUser(userID uint, eventType string, payload any) {
	n.events = append(n.events, sentEvent{userID: userID, eventType: eventType, payload: payload})
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Password: "hash"}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func sampleProperty(name string, price uint64) *model.Property {
	return &model.Property{
		Name:             name,
		Type:             model.ListingRent,
		PropertyType:     model.PropertyApartment,
		BHK:              model.BHK2,
		Price:            price,
		Area:             850,
		PreferredTenants: model.TenantsFamily,
		Street:           "Baner Road",
		City:             "Pune",
		State:            "Maharashtra",
		Pincode:          "411045",
	}
}

// png1x1 is a base64 data uri of a single transparent pixel.
const png1x1 = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
