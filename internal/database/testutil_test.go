package database

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildauth/internal/models"
)

var migrateOnce sync.Once

// testPool returns a pgxpool.Pool connected to the test database with
// the schema migrated. It skips the test if DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	migrateOnce.Do(func() {
		if err := Migrate(dsn); err != nil {
			t.Fatalf("migrating test database: %v", err)
		}
	})

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// testIDCounter provides unique IDs across all tests in the package.
// Starts well above zero to avoid conflicts with any existing data.
var testIDCounter int64 = 100000

func nextID() int64 {
	return atomic.AddInt64(&testIDCounter, 1)
}

func createTestGuild(t *testing.T, repo GuildRepository, ownerID int64) *models.Guild {
	t.Helper()
	guild := &models.Guild{
		ID:        nextID(),
		Name:      "test guild",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), guild); err != nil {
		t.Fatalf("creating test guild: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), guild.ID) })
	return guild
}

func createTestMember(t *testing.T, repo MemberRepository, guildID, userID int64) *models.Member {
	t.Helper()
	member := &models.Member{
		GuildID:  guildID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), member); err != nil {
		t.Fatalf("creating test member: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), guildID, userID) })
	return member
}

func createTestRole(t *testing.T, repo RoleRepository, guildID int64, name string, position int, perms int64) *models.Role {
	t.Helper()
	role := &models.Role{
		ID:          nextID(),
		GuildID:     guildID,
		Name:        name,
		Permissions: perms,
		Position:    position,
	}
	if err := repo.Create(context.Background(), role); err != nil {
		t.Fatalf("creating test role %s: %v", name, err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), role.ID) })
	return role
}
