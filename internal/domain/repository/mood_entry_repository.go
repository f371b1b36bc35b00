package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"moodly/internal/common"
	"moodly/internal/domain/model"
)

type MoodEntryRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.MoodEntry, error)
	Create(ctx context.Context, entry *model.MoodEntry) error
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.MoodEntry, error)
	Update(ctx context.Context, entry *model.MoodEntry) error
	Delete(ctx context.Context, id, userID string) error
}

type pgMoodEntryRepository struct {
	db *sql.DB
}

func NewPgMoodEntryRepository(db *sql.DB) MoodEntryRepository {
	return &pgMoodEntryRepository{db: db}
}

func (r *pgMoodEntryRepository) ListByUser(ctx context.Context, userID string) ([]model.MoodEntry, error) {
	query := `SELECT id, user_id, mood, notes, entry_date, created_at, updated_at
	          FROM mood_entries WHERE user_id = $1 ORDER BY entry_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgMoodEntryRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	entries := []model.MoodEntry{}
	for rows.Next() {
		entry, err := scanMoodEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("pgMoodEntryRepository.ListByUser scan: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMoodEntryRepository.ListByUser rows.Err: %w", err)
	}
	return entries, nil
}

func (r *pgMoodEntryRepository) Create(ctx context.Context, entry *model.MoodEntry) error {
	entryDate, err := time.Parse(model.EntryDateLayout, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Create entry_date: %w", err)
	}
	query := `INSERT INTO mood_entries (id, user_id, mood, notes, entry_date)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err = r.db.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Mood, entry.Notes, entryDate)
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMoodEntryRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*model.MoodEntry, error) {
	query := `SELECT id, user_id, mood, notes, entry_date, created_at, updated_at
	          FROM mood_entries WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, id, userID)
	entry, err := scanMoodEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMoodEntryRepository.FindByIDAndUser: %w", err)
	}
	return entry, nil
}

// Update writes all mutable columns in a single statement conditioned on
// ownership. Zero affected rows means the entry is gone or not owned by the
// caller; both report as not found.
func (r *pgMoodEntryRepository) Update(ctx context.Context, entry *model.MoodEntry) error {
	entryDate, err := time.Parse(model.EntryDateLayout, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Update entry_date: %w", err)
	}
	query := `UPDATE mood_entries
	          SET mood = $1, notes = $2, entry_date = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, entry.Mood, entry.Notes, entryDate, entry.ID, entry.UserID)
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgMoodEntryRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM mood_entries WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgMoodEntryRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanMoodEntry(scan func(dest ...any) error) (*model.MoodEntry, error) {
	entry := &model.MoodEntry{}
	var entryDate time.Time
	if err := scan(
		&entry.ID, &entry.UserID, &entry.Mood, &entry.Notes, &entryDate,
		&entry.CreatedAt, &entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	entry.EntryDate = entryDate.UTC().Format(model.EntryDateLayout)
	return entry, nil
}
