package repository

import (
	"context"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appUserColumns = `id, name, email, password_hash, status, created_at, updated_at`

// AppUserRepository handles admin-domain account data access.
type AppUserRepository struct {
	pool *pgxpool.Pool
}

// NewAppUserRepository creates a new AppUserRepository.
func NewAppUserRepository(pool *pgxpool.Pool) *AppUserRepository {
	return &AppUserRepository{pool: pool}
}

func scanAppUser(row pgx.Row) (*model.AppUser, error) {
	u := &model.AppUser{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

// GetByID retrieves an app user by ID.
func (r *AppUserRepository) GetByID(ctx context.Context, id int) (*model.AppUser, error) {
	return scanAppUser(r.pool.QueryRow(ctx,
		`SELECT `+appUserColumns+` FROM app_users WHERE id = $1`, id))
}

// GetByEmail retrieves an app user by e-mail, ignoring case.
func (r *AppUserRepository) GetByEmail(ctx context.Context, email string) (*model.AppUser, error) {
	return scanAppUser(r.pool.QueryRow(ctx,
		`SELECT `+appUserColumns+` FROM app_users WHERE LOWER(email) = LOWER($1)`, email))
}

// List returns all app users, newest first.
func (r *AppUserRepository) List(ctx context.Context) ([]model.AppUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appUserColumns+` FROM app_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	users := []model.AppUser{}
	for rows.Next() {
		u, err := scanAppUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, translateError(rows.Err())
}

// Create inserts a new app user.
func (r *AppUserRepository) Create(ctx context.Context, u *model.AppUser) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO app_users (name, email, password_hash, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Status,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translateError(err)
}

// Update modifies an app user's name and e-mail.
func (r *AppUserRepository) Update(ctx context.Context, u *model.AppUser) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE app_users SET name = $1, email = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		u.Name, u.Email, u.ID,
	))
}

// UpdateStatus flips an app user between active and inactive.
func (r *AppUserRepository) UpdateStatus(ctx context.Context, id int, status model.AccountStatus) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE app_users SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id,
	))
}

// Delete removes an app user by ID.
func (r *AppUserRepository) Delete(ctx context.Context, id int) error {
	return requireAffected(r.pool.Exec(ctx, `DELETE FROM app_users WHERE id = $1`, id))
}
