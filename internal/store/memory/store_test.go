package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/query"
	"myrest.org/internal/resource"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore() (*Store, auth.User, auth.User) {
	s := NewStore(WithClock(func() time.Time { return testTime }))
	root := s.AddUser(auth.User{Username: "root", Role: auth.RoleRoot})
	normal := s.AddUser(auth.User{Username: "normal", Role: auth.RoleUser})
	return s, root, normal
}

func tagsFor(t *testing.T, s *Store, user *auth.User) resource.Manager[resource.Tag] {
	t.Helper()
	mgr, err := resource.ManagerFor[resource.Tag](s.For(user), "tags")
	if err != nil {
		t.Fatalf("ManagerFor: %v", err)
	}
	return mgr
}

func TestOwnershipScoping(t *testing.T) {
	s, root, normal := newTestStore()
	ctx := context.Background()

	if _, err := tagsFor(t, s, &root).Create(ctx, []resource.Tag{{Title: "root-tag"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := tagsFor(t, s, &normal).Create(ctx, []resource.Tag{{Title: "normal-tag"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A regular user only sees their own rows.
	rows, err := tagsFor(t, s, &normal).Retrieve(ctx, nil, nil, 0, -1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "normal-tag" {
		t.Fatalf("unexpected rows for normal user: %+v", rows)
	}

	// Root sees everything.
	rows, err = tagsFor(t, s, &root).Retrieve(ctx, nil, nil, 0, -1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for root, got %d", len(rows))
	}

	// Another user's row cannot be deleted, even by id.
	rootTag := rows[0]
	deleted, err := tagsFor(t, s, &normal).Delete(ctx,
		[]query.Predicate{{Field: "id", Op: query.OpEquals, Kind: query.KindInt, Int: rootTag.ID}})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(deleted) != 0 {
		t.Fatalf("normal user must not delete foreign rows: %v", deleted)
	}
}

func TestCreateStampsOwnerAndTimestamps(t *testing.T) {
	s, _, normal := newTestStore()
	created, err := tagsFor(t, s, &normal).Create(context.Background(), []resource.Tag{{Title: "x"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tag := created[0]
	if tag.ID == 0 || tag.UserID != normal.ID {
		t.Fatalf("unexpected row: %+v", tag)
	}
	if !tag.Created.Equal(testTime) || !tag.Updated.Equal(testTime) {
		t.Fatalf("timestamps not stamped: %+v", tag)
	}
}

func TestRetrieveFilterAndSort(t *testing.T) {
	s, root, _ := newTestStore()
	ctx := context.Background()
	mgr := tagsFor(t, s, &root)

	for _, title := range []string{"banana", "apple", "cherry", "apricot"} {
		if _, err := mgr.Create(ctx, []resource.Tag{{Title: title}}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := mgr.Retrieve(ctx,
		[]query.Predicate{{Field: "title", Op: query.OpContains, Kind: query.KindString, Str: "ap"}},
		[]query.SortKey{{Field: "title"}}, 0, -1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "apple" || rows[1].Title != "apricot" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	rows, err = mgr.Retrieve(ctx, nil, []query.SortKey{{Field: "title", Desc: true}}, 0, 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "cherry" || rows[1].Title != "banana" {
		t.Fatalf("unexpected descending rows: %+v", rows)
	}
}

func TestNullFilterOnTokenClient(t *testing.T) {
	s, root, _ := newTestStore()
	ctx := context.Background()

	clientID := int64(99)
	s.AddToken(auth.APIToken{UserID: root.ID, Title: "session", Token: "a", Enabled: true})
	s.AddToken(auth.APIToken{UserID: root.ID, Title: "integration", Token: "b", Enabled: true, APIClientID: &clientID})

	mgr, err := resource.ManagerFor[auth.APIToken](s.For(&root), "api_tokens")
	if err != nil {
		t.Fatalf("ManagerFor: %v", err)
	}

	rows, err := mgr.Retrieve(ctx,
		[]query.Predicate{{Field: "api_client_id", Op: query.OpEquals, Kind: query.KindInt, IsNull: true}},
		nil, 0, -1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "session" {
		t.Fatalf("expected only the session token, got %+v", rows)
	}

	rows, err = mgr.Retrieve(ctx,
		[]query.Predicate{{Field: "api_client_id", Op: query.OpNotEquals, Kind: query.KindInt, IsNull: true}},
		nil, 0, -1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "integration" {
		t.Fatalf("expected only the client token, got %+v", rows)
	}
}

func TestUpdateAppliesMutableFields(t *testing.T) {
	s, root, _ := newTestStore()
	ctx := context.Background()
	mgr := tagsFor(t, s, &root)

	created, err := mgr.Create(ctx, []resource.Tag{{Title: "old"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	color := "red"
	updated, err := mgr.Update(ctx,
		[]query.Predicate{{Field: "id", Op: query.OpEquals, Kind: query.KindInt, Int: created[0].ID}},
		resource.Tag{Title: "new", Color: &color})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated) != 1 || updated[0].Title != "new" || updated[0].Color == nil {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if updated[0].UserID != root.ID {
		t.Fatalf("ownership must survive updates: %+v", updated[0])
	}
}

func TestIdentityStore(t *testing.T) {
	s, root, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.UserByUsername(ctx, "nobody"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	token, err := s.CreateToken(ctx, &auth.APIToken{UserID: root.ID, Token: "abc", Enabled: true})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	got, err := s.TokenByValue(ctx, "abc")
	if err != nil || got.ID != token.ID {
		t.Fatalf("TokenByValue: %v / %+v", err, got)
	}

	token.Token = "def"
	if err := s.UpdateToken(ctx, token); err != nil {
		t.Fatalf("UpdateToken: %v", err)
	}
	if _, err := s.TokenByValue(ctx, "abc"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("old value should be gone, got %v", err)
	}

	if err := s.DeleteToken(ctx, token.ID); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if err := s.DeleteToken(ctx, token.ID); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.UpdatePassword(ctx, root.ID, "hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	u, err := s.UserByID(ctx, root.ID)
	if err != nil || u.PasswordHash != "hash" {
		t.Fatalf("password not stored: %v / %+v", err, u)
	}
}
