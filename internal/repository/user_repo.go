package repository

import (
	"context"
	"errors"
	"fmt"

	"gooxalert/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPhoneTaken signals a uniqueness violation on the telephone column. The
// database constraint is the last line of defense against racing duplicate
// registrations, so it must surface as a validation error, not a 500.
var ErrPhoneTaken = errors.New("telephone already registered")

// DB is the querier subset of pgxpool.Pool the repositories need. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByPhone(ctx context.Context, telephone string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	PhoneInUseByOther(ctx context.Context, telephone string, excludeID int) (bool, error)
	UpdatePersonalInfo(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpdateRole(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, full_name, telephone, commune, image_url, role, terms, is_active, is_staff, is_superuser, password_hash, created_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.FullName, &u.Telephone, &u.Commune, &u.ImageURL, &u.Role,
		&u.Terms, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.PasswordHash, &u.CreatedAt)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (full_name, telephone, commune, image_url, role, terms, is_active, is_staff, is_superuser, password_hash, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.FullName, user.Telephone, user.Commune, user.ImageURL,
		user.Role, user.Terms, user.IsActive, user.IsStaff, user.IsSuperuser, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPhoneTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByPhone retrieves a user by their canonical telephone
func (r *userRepository) FindByPhone(ctx context.Context, telephone string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE telephone = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, telephone), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAll retrieves every user, newest account first
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// PhoneInUseByOther reports whether another account already holds the telephone
func (r *userRepository) PhoneInUseByOther(ctx context.Context, telephone string, excludeID int) (bool, error) {
	var count int
	sql := `SELECT COUNT(*) FROM users WHERE telephone = $1 AND id <> $2`
	if err := r.db.QueryRow(ctx, sql, telephone, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check telephone usage: %w", err)
	}
	return count > 0, nil
}

// UpdatePersonalInfo updates the display name and login telephone
func (r *userRepository) UpdatePersonalInfo(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET full_name = $1, telephone = $2 WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, sql, user.FullName, user.Telephone, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPhoneTaken
		}
		return fmt.Errorf("failed to update personal info: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for personal info update")
	}
	return nil
}

// UpdateProfile updates the profile fields (commune, avatar, terms)
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET full_name = $1, commune = $2, image_url = $3, terms = $4 WHERE id = $5`
	cmdTag, err := r.db.Exec(ctx, sql, user.FullName, user.Commune, user.ImageURL, user.Terms, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for profile update")
	}
	return nil
}

// UpdatePassword overwrites the stored credential hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for password update")
	}
	return nil
}

// UpdateRole changes the role and the authorization flags that follow from it
func (r *userRepository) UpdateRole(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET role = $1, is_staff = $2, is_superuser = $3 WHERE id = $4`
	cmdTag, err := r.db.Exec(ctx, sql, user.Role, user.IsStaff, user.IsSuperuser, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for role update")
	}
	return nil
}
