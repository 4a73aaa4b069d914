package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, role, school, grade, contact_no, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.School, &u.Grade, &u.ContactNo, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns it.
func (r *Repository) Create(ctx context.Context, email, passwordHash, fullName string, role models.Role, school, grade, contactNo string) (*models.User, error) {
	const q = `INSERT INTO users (id, email, password_hash, full_name, role, school, grade, contact_no)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, email, passwordHash, fullName, role, school, grade, contactNo))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

// List returns all users, optionally filtered by role.
func (r *Repository) List(ctx context.Context, role string) ([]models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if role != "" {
		q += ` WHERE role = $1`
		args = append(args, role)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// UpdateRole changes a user's role (admin operation).
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	const q = `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, role, id)
	return err
}

// UpdateProfile updates a user's own editable fields.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, school, grade, contactNo string) error {
	const q = `UPDATE users SET full_name = $1, school = $2, grade = $3, contact_no = $4, updated_at = NOW() WHERE id = $5`
	_, err := r.pool.Exec(ctx, q, fullName, school, grade, contactNo, id)
	return err
}
