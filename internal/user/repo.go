package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Repository persists user accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

// Create inserts a new account and returns it with the assigned id.
// Returns ErrUsernameTaken when the username is already registered.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role, name, roll_number, class_section)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Username, u.PasswordHash, u.Role, u.Name, u.RollNumber, u.ClassSection)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return u, nil
}

// GetByID returns the account with the given id, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUsername returns the account with the given username, or nil when absent.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

// GetByRollNumber returns the first student with the given roll number, or nil.
// Roll numbers are not unique-constrained; callers treat collisions as data entry
// issues rather than errors.
func (r *Repository) GetByRollNumber(ctx context.Context, rollNumber string) (*User, error) {
	return r.getOne(ctx, `WHERE roll_number = $1 AND role = 'student' ORDER BY id LIMIT 1`, rollNumber)
}

func (r *Repository) getOne(ctx context.Context, clause string, arg any) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, name, roll_number, class_section, created_at
		FROM users `+clause, arg)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.RollNumber, &u.ClassSection, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListStudents returns student accounts, optionally filtered to one class
// section.
func (r *Repository) ListStudents(ctx context.Context, classSection string) ([]User, error) {
	query := `
		SELECT id, username, password_hash, role, name, roll_number, class_section, created_at
		FROM users WHERE role = 'student'`
	args := []any{}
	if classSection != "" {
		query += ` AND class_section = $1`
		args = append(args, classSection)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.RollNumber, &u.ClassSection, &u.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// CountStudents returns the number of student accounts.
func (r *Repository) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'student'`).Scan(&n)
	return n, err
}
