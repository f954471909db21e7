package database

import (
	"context"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
)

// testPool returns a pgxpool.Pool connected to the test database.
// It skips the test if DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// testIDCounter provides unique IDs across all tests in the package.
// Starts well above zero to avoid conflicts with any existing data.
var testIDCounter int64 = 500000

func nextID() int64 {
	return atomic.AddInt64(&testIDCounter, 1)
}

func createTestUser(t *testing.T, repo UserRepository) *models.User {
	t.Helper()
	user := &models.User{
		ID:           nextID(),
		Username:     "user" + strconv.FormatInt(nextID(), 10),
		DisplayName:  "Test User",
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), user.ID) })
	return user
}

// seedTemplates makes sure the global default template rows exist.
func seedTemplates(t *testing.T, repo RoleRepository) {
	t.Helper()
	if err := repo.SeedTemplates(context.Background(), models.DefaultTemplateRoles()); err != nil {
		t.Fatalf("seeding templates: %v", err)
	}
}

// createTestChannel creates a channel through the full owner saga with the
// default templates activated.
func createTestChannel(t *testing.T, channels ChannelRepository, roles RoleRepository, creatorID int64) *models.Channel {
	t.Helper()
	seedTemplates(t, roles)

	ch := &models.Channel{
		ID:        nextID(),
		Name:      "test-channel",
		CreatorID: creatorID,
		MaxRoles:  models.DefaultMaxRoles,
		CreatedAt: time.Now(),
	}
	channelRoleIDs := make([]int64, len(permissions.DefaultTemplateIDs))
	for i := range channelRoleIDs {
		channelRoleIDs[i] = nextID()
	}
	err := channels.CreateWithOwner(context.Background(), ch, channelRoleIDs, permissions.DefaultTemplateIDs, permissions.TemplateOwnerID, nextID())
	if err != nil {
		t.Fatalf("creating test channel: %v", err)
	}
	t.Cleanup(func() { _ = channels.Delete(context.Background(), ch.ID) })
	return ch
}
