package service

import (
	"context"
	"fmt"
	"time"

	"moodly/internal/common"
	"moodly/internal/domain/model"
	"moodly/internal/domain/repository"

	"github.com/google/uuid"
)

// entryDateLayouts are the accepted input forms for entry_date. Whatever
// comes in is normalized to model.EntryDateLayout in UTC before storage.
var entryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	model.EntryDateLayout,
	"2006-01-02",
}

type MoodService struct {
	entryRepo repository.MoodEntryRepository
}

func NewMoodService(entryRepo repository.MoodEntryRepository) *MoodService {
	return &MoodService{entryRepo: entryRepo}
}

type AddEntryRequest struct {
	Mood      string  `json:"mood"`
	Notes     *string `json:"notes"`
	EntryDate string  `json:"entry_date"`
}

type UpdateEntryRequest struct {
	Mood      *string `json:"mood"`
	Notes     *string `json:"notes"`
	EntryDate *string `json:"entry_date"`
}

func (s *MoodService) List(ctx context.Context, userID string) ([]model.MoodEntry, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func (s *MoodService) Add(ctx context.Context, userID string, req AddEntryRequest) (*model.MoodEntry, error) {
	if req.Mood == "" || req.EntryDate == "" {
		return nil, fmt.Errorf("mood and entry_date are required: %w", common.ErrValidation)
	}
	entryDate, err := normalizeEntryDate(req.EntryDate)
	if err != nil {
		return nil, err
	}

	entry := &model.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      req.Mood,
		Notes:     normalizeNotes(req.Notes),
		EntryDate: entryDate,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	// Fetch the persisted row so the response carries generated timestamps.
	created, err := s.entryRepo.FindByIDAndUser(ctx, entry.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created entry: %w", err)
	}
	return created, nil
}

func (s *MoodService) Update(ctx context.Context, userID, entryID string, req UpdateEntryRequest) (*model.MoodEntry, error) {
	if req.Mood == nil && req.Notes == nil && req.EntryDate == nil {
		return nil, fmt.Errorf("no fields to update: %w", common.ErrValidation)
	}

	entry, err := s.entryRepo.FindByIDAndUser(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	if req.Mood != nil {
		if *req.Mood == "" {
			return nil, fmt.Errorf("mood cannot be empty: %w", common.ErrValidation)
		}
		entry.Mood = *req.Mood
	}
	if req.Notes != nil {
		entry.Notes = normalizeNotes(req.Notes)
	}
	if req.EntryDate != nil {
		entryDate, err := normalizeEntryDate(*req.EntryDate)
		if err != nil {
			return nil, err
		}
		entry.EntryDate = entryDate
	}

	// Conditional write: the repository re-checks ownership in the statement
	// itself, so a concurrent delete surfaces as not found instead of
	// resurrecting the row.
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	updated, err := s.entryRepo.FindByIDAndUser(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MoodService) Delete(ctx context.Context, userID, entryID string) error {
	return s.entryRepo.Delete(ctx, entryID, userID)
}

func normalizeEntryDate(raw string) (string, error) {
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(model.EntryDateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid entry_date format: %w", common.ErrValidation)
}

// normalizeNotes maps an explicit empty string to NULL; notes are either
// absent or non-empty text.
func normalizeNotes(notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	return notes
}
