package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/store/core"
)

// CreateUser inserts the record, relying on the unique index over
// lower(email) for the atomic insert-or-fail. No read-then-write.
func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, email_verified)
		VALUES ($1, $2, lower($3), $4, $5, $6)
		RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.EmailVerified,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return s.scanUser(ctx, `
		SELECT id, name, email, password_hash, role, email_verified, created_at
		FROM users WHERE email = lower($1)`, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	return s.scanUser(ctx, `
		SELECT id, name, email, password_hash, role, email_verified, created_at
		FROM users WHERE id = $1`, id)
}

func (s *Store) scanUser(ctx context.Context, query string, arg any) (*core.User, error) {
	var u core.User
	var role string
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.EmailVerified, &u.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	u.Role = core.Role(role)
	return &u, nil
}

func (s *Store) MarkEmailVerified(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role core.Role) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]core.User, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, password_hash, role, email_verified, created_at
		FROM users ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.EmailVerified, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		u.Role = core.Role(role)
		out = append(out, u)
	}
	return out, total, rows.Err()
}
