package testsupport

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// User is the entity the action tests run against. DeletedAt makes it a bun
// soft-delete model so force-delete behavior is exercisable.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name" json:"name"`
	Email     string    `bun:"email" json:"email"`
	Role      string    `bun:"role" json:"role"`
	Status    string    `bun:"status" json:"status"`
	Token     string    `bun:"token" json:"token"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`

	Profile *Profile `bun:"rel:has-one,join:id=user_id" json:"profile,omitempty"`
}

// Profile is the related entity used for relation loading and dotted search
// columns.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID int64  `bun:"user_id" json:"user_id"`
	Bio    string `bun:"bio" json:"bio"`
}

// NewDB opens an in-memory sqlite database with the fixture schema created,
// registered for cleanup with t.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	// A uniquely named shared-cache database keeps parallel tests isolated
	// while letting the pool open extra connections to the same store.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_fk=1"
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// The shared-cache in-memory database disappears with its last
	// connection; pin one for the test's lifetime.
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*User)(nil), (*Profile)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("failed to create table for %T: %v", model, err)
		}
	}

	return db
}

// DefaultUsers returns the deterministic dataset most tests seed. IDs are
// assigned by the store in insertion order, so "id DESC" means last first.
func DefaultUsers() []User {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return []User{
		{Name: "John Doe", Email: "john@example.com", Role: "admin", Status: "active", CreatedAt: base},
		{Name: "Jane Smith", Email: "jane@example.com", Role: "editor", Status: "active", CreatedAt: base.AddDate(0, 0, 10)},
		{Name: "Bob Johnson", Email: "bob@example.com", Role: "viewer", Status: "inactive", CreatedAt: base.AddDate(0, 0, 20)},
	}
}

// SeedUsers inserts the given users and returns them with IDs and tokens
// populated.
func SeedUsers(t *testing.T, db *bun.DB, users []User) []User {
	t.Helper()

	for i := range users {
		if users[i].Token == "" {
			users[i].Token = uuid.NewString()
		}
	}
	if _, err := db.NewInsert().Model(&users).Exec(context.Background()); err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
	return users
}

// SeedProfiles inserts profiles for the given users.
func SeedProfiles(t *testing.T, db *bun.DB, profiles []Profile) []Profile {
	t.Helper()

	if _, err := db.NewInsert().Model(&profiles).Exec(context.Background()); err != nil {
		t.Fatalf("failed to seed profiles: %v", err)
	}
	return profiles
}
