package pg

import (
	"context"
	"database/sql"
	"errors"

	"campusgate.org/internal/auth"
)

// Users exposes the user directory backed by this store.
func (s *Store) Users() auth.UserStore { return &userStore{db: s.db} }

type userStore struct{ db *sql.DB }

var _ auth.UserStore = (*userStore)(nil)

func (s *userStore) Insert(ctx context.Context, u *auth.User) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		insert into users (name, email, password_hash, role, is_approved)
		values ($1, $2, $3, $4, $5)
		returning id
	`, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Approved).Scan(&id)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return 0, auth.ErrConflict
		}
		return 0, err
	}
	return id, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, role, is_approved, created_at
		from users
		where email = $1
	`, email))
}

func (s *userStore) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, role, is_approved, created_at
		from users
		where id = $1
	`, id))
}

func (s *userStore) scanOne(row *sql.Row) (*auth.User, error) {
	var (
		u    auth.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Approved, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = auth.Role(role)
	return &u, nil
}

func (s *userStore) SetApproved(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		update users set is_approved = true
		where id = $1 and is_approved = false
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *userStore) ListPending(ctx context.Context) ([]*auth.User, error) {
	return s.list(ctx, `
		select id, name, email, password_hash, role, is_approved, created_at
		from users
		where is_approved = false
		order by created_at
	`)
}

func (s *userStore) List(ctx context.Context) ([]*auth.User, error) {
	return s.list(ctx, `
		select id, name, email, password_hash, role, is_approved, created_at
		from users
		order by id
	`)
}

func (s *userStore) list(ctx context.Context, query string) ([]*auth.User, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*auth.User
	for rows.Next() {
		var (
			u    auth.User
			role string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Approved, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = auth.Role(role)
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
