// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/database"
)

// NewDB opens a migrated in-memory sqlite database. The pool is pinned to one
// connection because every new :memory: connection is a fresh database.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// MustUser inserts a user with the given username.
func MustUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "p"}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// MustGroup inserts a group with the given slug.
func MustGroup(tb testing.TB, db *gorm.DB, slug string) *model.Group {
	tb.Helper()
	g := &model.Group{Slug: slug, Title: "Group " + slug, Description: "about " + slug}
	if err := db.Create(g).Error; err != nil {
		tb.Fatalf("seed group %s: %v", slug, err)
	}
	return g
}

// MustPost inserts a post with an explicit creation time.
func MustPost(tb testing.TB, db *gorm.DB, author *model.User, group *model.Group, text string, at time.Time) *model.Post {
	tb.Helper()
	p := &model.Post{Text: text, AuthorID: author.ID, CreatedAt: at, UpdatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := db.Omit("Author", "Group").Create(p).Error; err != nil {
		tb.Fatalf("seed post %q: %v", text, err)
	}
	return p
}
