package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"moodly/internal/common"
	"moodly/internal/domain/model"
)

type fakeEntryRepo struct {
	entries map[string]*model.MoodEntry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[string]*model.MoodEntry{}}
}

func (r *fakeEntryRepo) ListByUser(_ context.Context, userID string) ([]model.MoodEntry, error) {
	out := []model.MoodEntry{}
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	// Canonical entry_date strings sort chronologically.
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate > out[j].EntryDate })
	return out, nil
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *model.MoodEntry) error {
	e := *entry
	r.entries[e.ID] = &e
	return nil
}

func (r *fakeEntryRepo) FindByIDAndUser(_ context.Context, id, userID string) (*model.MoodEntry, error) {
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return nil, common.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEntryRepo) Update(_ context.Context, entry *model.MoodEntry) error {
	e, ok := r.entries[entry.ID]
	if !ok || e.UserID != entry.UserID {
		return common.ErrNotFound
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeEntryRepo) Delete(_ context.Context, id, userID string) error {
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func strptr(s string) *string { return &s }

func TestAddValidation(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())

	tests := []struct {
		name string
		req  AddEntryRequest
	}{
		{"missing mood", AddEntryRequest{EntryDate: "2024-01-01 10:00:00"}},
		{"missing entry_date", AddEntryRequest{Mood: "happy"}},
		{"garbage entry_date", AddEntryRequest{Mood: "happy", EntryDate: "yesterday-ish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), "u1", tt.req)
			if !errors.Is(err, common.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestAddNormalizesEntryDate(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rfc3339 utc", "2024-01-01T10:00:00Z", "2024-01-01 10:00:00"},
		{"rfc3339 offset", "2024-01-01T10:00:00+02:00", "2024-01-01 08:00:00"},
		{"no zone", "2024-01-01T10:00:00", "2024-01-01 10:00:00"},
		{"already canonical", "2024-01-01 10:00:00", "2024-01-01 10:00:00"},
		{"date only", "2024-01-01", "2024-01-01 00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := svc.Add(context.Background(), "u1", AddEntryRequest{Mood: "happy", EntryDate: tt.in})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			if entry.EntryDate != tt.want {
				t.Fatalf("entry_date = %q, want %q", entry.EntryDate, tt.want)
			}
		})
	}
}

func TestAddDefaultsAndID(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())

	entry, err := svc.Add(context.Background(), "u1", AddEntryRequest{Mood: "happy", EntryDate: "2024-01-01"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("add did not assign an id")
	}
	if entry.Notes != nil {
		t.Fatalf("notes should default to nil, got %v", *entry.Notes)
	}
	if entry.UserID != "u1" {
		t.Fatalf("user_id = %q, want u1", entry.UserID)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())
	ctx := context.Background()

	for _, date := range []string{"2024-01-02 09:00:00", "2024-01-01 09:00:00", "2024-01-03 09:00:00"} {
		if _, err := svc.Add(ctx, "u1", AddEntryRequest{Mood: "ok", EntryDate: date}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	entries, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-01-03 09:00:00", "2024-01-02 09:00:00", "2024-01-01 09:00:00"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].EntryDate != w {
			t.Fatalf("entries[%d].EntryDate = %q, want %q", i, entries[i].EntryDate, w)
		}
	}
}

func TestUpdatePartialPatch(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())
	ctx := context.Background()

	entry, err := svc.Add(ctx, "u1", AddEntryRequest{Mood: "happy", Notes: strptr("slept well"), EntryDate: "2024-01-01 10:00:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Notes-only patch leaves mood and entry_date untouched.
	updated, err := svc.Update(ctx, "u1", entry.ID, UpdateEntryRequest{Notes: strptr("long day")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Mood != "happy" || updated.EntryDate != "2024-01-01 10:00:00" {
		t.Fatalf("notes-only patch mutated other fields: %+v", updated)
	}
	if updated.Notes == nil || *updated.Notes != "long day" {
		t.Fatalf("notes = %v, want \"long day\"", updated.Notes)
	}

	// Explicit empty string clears notes.
	updated, err = svc.Update(ctx, "u1", entry.ID, UpdateEntryRequest{Notes: strptr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes != nil {
		t.Fatalf("empty notes patch should clear, got %v", *updated.Notes)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())
	ctx := context.Background()

	entry, err := svc.Add(ctx, "u1", AddEntryRequest{Mood: "happy", EntryDate: "2024-01-01 10:00:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.Update(ctx, "u1", entry.ID, UpdateEntryRequest{}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("empty patch: want ErrValidation, got %v", err)
	}

	if _, err := svc.Update(ctx, "u1", entry.ID, UpdateEntryRequest{EntryDate: strptr("not-a-date")}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad date: want ErrValidation, got %v", err)
	}

	// The failed patches must not have mutated the stored entry.
	stored, err := svc.Update(ctx, "u1", entry.ID, UpdateEntryRequest{Mood: strptr("tired")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stored.EntryDate != "2024-01-01 10:00:00" {
		t.Fatalf("rejected patch leaked into storage: %+v", stored)
	}
}

func TestOwnershipScoping(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())
	ctx := context.Background()

	entry, err := svc.Add(ctx, "alice", AddEntryRequest{Mood: "happy", EntryDate: "2024-01-01 10:00:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Bob's list never includes Alice's entries.
	bobEntries, err := svc.List(ctx, "bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bobEntries) != 0 {
		t.Fatalf("bob sees %d foreign entries", len(bobEntries))
	}

	// Bob's mutations of Alice's id are indistinguishable from not-found.
	if _, err := svc.Update(ctx, "bob", entry.ID, UpdateEntryRequest{Mood: strptr("evil")}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("cross-user update: want ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "bob", entry.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("cross-user delete: want ErrNotFound, got %v", err)
	}

	// Alice still owns an intact entry.
	after, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 1 || after[0].Mood != "happy" {
		t.Fatalf("alice's entry damaged: %+v", after)
	}
}

func TestDeleteLifecycle(t *testing.T) {
	svc := NewMoodService(newFakeEntryRepo())
	ctx := context.Background()

	entry, err := svc.Add(ctx, "u1", AddEntryRequest{Mood: "happy", EntryDate: "2024-01-01 10:00:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(ctx, "u1", entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("deleted entry still listed: %+v", entries)
	}

	if err := svc.Delete(ctx, "u1", entry.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}
