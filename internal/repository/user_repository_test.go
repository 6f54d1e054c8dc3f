package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"ai-samples-api/internal/domain"
)

func seedUserForTest(t *testing.T, repo UserRepository, id, username, email string, active bool, createdAt time.Time) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		IsActive:     active,
		CreatedAt:    createdAt,
	}
	if err := repo.Create(u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func TestUserRepositoryLookups(t *testing.T) {
	db := newRepositoryDBForTest(t)
	migrateIdentityForTest(t, db)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	seedUserForTest(t, repo, "u1", "alice01", "alice@example.com", true, now)
	seedUserForTest(t, repo, "u2", "bob02", "bob@example.com", false, now)

	u, err := repo.FindByUsername("ALICE01")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("expected u1, got %s", u.ID)
	}

	if _, err := repo.FindByEmail("Bob@Example.com"); err != nil {
		t.Fatalf("find by email should be case-insensitive: %v", err)
	}

	// Inactive users are invisible to the active-only lookups.
	if _, err := repo.FindActiveByEmail("bob@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for inactive user, got %v", err)
	}
	if _, err := repo.FindActiveByID("u2"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for inactive user, got %v", err)
	}
	if _, err := repo.FindByID("u2"); err != nil {
		t.Fatalf("plain lookup should still see inactive user: %v", err)
	}

	exists, err := repo.Exists("u1")
	if err != nil || !exists {
		t.Fatalf("expected u1 to exist, got %v %v", exists, err)
	}
	exists, err = repo.Exists("missing")
	if err != nil || exists {
		t.Fatalf("expected missing id to not exist, got %v %v", exists, err)
	}
}

func TestUserRepositoryListPagedFilters(t *testing.T) {
	db := newRepositoryDBForTest(t)
	migrateIdentityForTest(t, db)
	repo := NewUserRepository(db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedUserForTest(t, repo,
			fmt.Sprintf("u%d", i),
			fmt.Sprintf("user%02d", i),
			fmt.Sprintf("user%02d@example.com", i),
			i%2 == 0,
			base.Add(time.Duration(i)*time.Hour))
	}
	seedUserForTest(t, repo, "u-search", "findme99", "special@corp.test", true, base.Add(10*time.Hour))

	page, err := repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 1, PageSize: 2}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 6 || page.TotalPages != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page result: total=%d pages=%d items=%d", page.Total, page.TotalPages, len(page.Items))
	}
	if page.Items[0].ID != "u-search" {
		t.Fatalf("expected newest user first, got %s", page.Items[0].ID)
	}

	active, err := repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 1, PageSize: 50}, IsActive: true, FilterByActive: true})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if active.Total != 4 {
		t.Fatalf("expected 4 active users, got %d", active.Total)
	}
	for _, u := range active.Items {
		if !u.IsActive {
			t.Fatalf("inactive user leaked into active filter: %s", u.ID)
		}
	}

	inactive, err := repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 1, PageSize: 50}, IsActive: false, FilterByActive: true})
	if err != nil {
		t.Fatalf("list inactive: %v", err)
	}
	if inactive.Total != 2 {
		t.Fatalf("expected 2 inactive users, got %d", inactive.Total)
	}

	byUsername, err := repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 1, PageSize: 50}, Search: "FINDME"})
	if err != nil {
		t.Fatalf("search by username: %v", err)
	}
	if byUsername.Total != 1 || byUsername.Items[0].ID != "u-search" {
		t.Fatalf("unexpected search result: %+v", byUsername)
	}

	byEmail, err := repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 1, PageSize: 50}, Search: "corp.test"})
	if err != nil {
		t.Fatalf("search by email: %v", err)
	}
	if byEmail.Total != 1 || byEmail.Items[0].ID != "u-search" {
		t.Fatalf("unexpected search result: %+v", byEmail)
	}
}

func TestUserRepositoryListPagedClampsPageSize(t *testing.T) {
	db := newRepositoryDBForTest(t)
	migrateIdentityForTest(t, db)
	repo := NewUserRepository(db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seedUserForTest(t, repo,
			fmt.Sprintf("u%03d", i),
			fmt.Sprintf("user%03d", i),
			fmt.Sprintf("user%03d@example.com", i),
			true,
			base.Add(time.Duration(i)*time.Minute))
	}

	// Oversized requests are clamped, not rejected.
	page, err := repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 1, PageSize: 500}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.PageSize != MaxPageSize || len(page.Items) != MaxPageSize {
		t.Fatalf("expected clamp to %d, got size=%d items=%d", MaxPageSize, page.PageSize, len(page.Items))
	}
	if page.Total != 60 || page.TotalPages != 2 {
		t.Fatalf("unexpected totals: %d/%d", page.Total, page.TotalPages)
	}

	// Out-of-range values fall back to the defaults.
	page, err = repo.ListPaged(UserListQuery{PageRequest: PageRequest{Page: 0, PageSize: -3}})
	if err != nil {
		t.Fatalf("list defaults: %v", err)
	}
	if page.Page != DefaultPage || page.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults, got page=%d size=%d", page.Page, page.PageSize)
	}
}
