package repository

import (
	"context"
	"errors"
	"fmt"

	"gooxalert/internal/model"

	"github.com/jackc/pgx/v5"
)

// SignalementRepository defines operations for signalement data. Every lookup
// is scoped to the owning user, so another user's record behaves exactly like
// a missing one.
type SignalementRepository interface {
	Create(ctx context.Context, s *model.Signalement) error
	FindByIDAndUser(ctx context.Context, id int64, userID int) (*model.Signalement, error)
	FindByUser(ctx context.Context, userID int) ([]model.Signalement, error)
	Update(ctx context.Context, s *model.Signalement) error
	Delete(ctx context.Context, id int64, userID int) error
}

type signalementRepository struct {
	db DB
}

// NewSignalementRepository creates a new SignalementRepository
func NewSignalementRepository(db DB) SignalementRepository {
	return &signalementRepository{db: db}
}

const signalementColumns = `id, user_id, title, description, image_url, location, category, status, created_at`

func scanSignalement(row pgx.Row, s *model.Signalement) error {
	return row.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.ImageURL,
		&s.Location, &s.Category, &s.Status, &s.CreatedAt)
}

// Create inserts a new signalement into the database
func (r *signalementRepository) Create(ctx context.Context, s *model.Signalement) error {
	sql := `INSERT INTO signalements (user_id, title, description, image_url, location, category, status, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, s.UserID, s.Title, s.Description, s.ImageURL,
		s.Location, s.Category, s.Status, s.CreatedAt).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create signalement: %w", err)
	}
	return nil
}

// FindByIDAndUser retrieves a signalement by id, restricted to its owner
func (r *signalementRepository) FindByIDAndUser(ctx context.Context, id int64, userID int) (*model.Signalement, error) {
	s := &model.Signalement{}
	sql := `SELECT ` + signalementColumns + ` FROM signalements WHERE id = $1 AND user_id = $2`
	err := scanSignalement(r.db.QueryRow(ctx, sql, id, userID), s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found (or not owned, indistinguishable on purpose)
		}
		return nil, fmt.Errorf("failed to find signalement by ID: %w", err)
	}
	return s, nil
}

// FindByUser retrieves the user's signalements, newest first
func (r *signalementRepository) FindByUser(ctx context.Context, userID int) ([]model.Signalement, error) {
	sql := `SELECT ` + signalementColumns + ` FROM signalements WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signalements by user: %w", err)
	}
	defer rows.Close()

	var signalements []model.Signalement
	for rows.Next() {
		var s model.Signalement
		if err := scanSignalement(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan signalement row: %w", err)
		}
		signalements = append(signalements, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signalement rows: %w", err)
	}
	return signalements, nil
}

// Update modifies a signalement's own fields. Status and created_at are never
// touched here; the WHERE clause enforces ownership.
func (r *signalementRepository) Update(ctx context.Context, s *model.Signalement) error {
	sql := `UPDATE signalements
            SET title = $1, description = $2, image_url = $3, location = $4, category = $5
            WHERE id = $6 AND user_id = $7`
	cmdTag, err := r.db.Exec(ctx, sql, s.Title, s.Description, s.ImageURL, s.Location, s.Category, s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("failed to update signalement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("signalement not found or not owned by user for update")
	}
	return nil
}

// Delete removes a signalement, restricted to its owner
func (r *signalementRepository) Delete(ctx context.Context, id int64, userID int) error {
	sql := `DELETE FROM signalements WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete signalement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("signalement not found for deletion")
	}
	return nil
}
