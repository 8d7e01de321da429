package readstore

import (
	"context"
	"errors"

	"taskbridge-server/internal/infra"
	"taskbridge-server/internal/infra/db"
	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProviderReadStore struct {
	db db.DBTX
}

func NewProviderReadStore(pool db.DBTX) *ProviderReadStore {
	return &ProviderReadStore{db: pool}
}

func (r *ProviderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProviderSnapshot, error) {
	var snap queries.ProviderSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, display_name, category, hourly_rate_cents, is_verified, is_active
		 FROM service_providers WHERE id = $1`,
		id,
	).Scan(&snap.ID, &snap.DisplayName, &snap.Category, &snap.HourlyRateCents, &snap.IsVerified, &snap.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("provider not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find provider by ID", err)
	}
	return &snap, nil
}
