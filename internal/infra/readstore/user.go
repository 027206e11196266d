package readstore

import (
	"context"

	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/pgconv"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct {
	db         pg.DBTX
	maxRetries int
}

func NewUserReadStore(db pg.DBTX, maxConflictRetries int) *UserReadStore {
	return &UserReadStore{db: db, maxRetries: maxConflictRetries}
}

type userRow struct {
	ID           uuid.UUID
	Email        string
	Role         string
	OrgID        pgtype.UUID
	IsActive     bool
	PasswordHash string
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (userRow, error) {
		var u userRow
		err := r.db.QueryRow(ctx, `
			SELECT id, email, role, org_id, is_active, password_hash
			FROM users
			WHERE id = $1`, id,
		).Scan(&u.ID, &u.Email, &u.Role, &u.OrgID, &u.IsActive, &u.PasswordHash)
		return u, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return toAuthorizedUserView(row), nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	row, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (userRow, error) {
		var u userRow
		err := r.db.QueryRow(ctx, `
			SELECT id, email, role, org_id, is_active, password_hash
			FROM users
			WHERE email = $1`, email,
		).Scan(&u.ID, &u.Email, &u.Role, &u.OrgID, &u.IsActive, &u.PasswordHash)
		return u, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return toAuthorizedUserView(row), row.PasswordHash, nil
}

func toAuthorizedUserView(row userRow) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       row.ID,
		Email:    row.Email,
		Role:     row.Role,
		OrgID:    pgconv.UUIDPtrFromPgtype(row.OrgID),
		IsActive: row.IsActive,
	}
}
