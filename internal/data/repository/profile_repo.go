package repository

import (
	"context"
	"fmt"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.ProfessionalProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ProfessionalProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.ProfessionalProfile, error)
	FindBySlug(ctx context.Context, slug string) (*entity.ProfessionalProfile, error)
	FindAll(ctx context.Context, limit, offset int) ([]entity.ProfessionalProfile, error)
	Count(ctx context.Context) (int, error)
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

const profileColumns = `
	id, user_id, slug, display_name, service_name,
	hourly_rate, currency, bio, service_address, is_active,
	created_at, updated_at
`

func scanProfile(row pgx.Row) (*entity.ProfessionalProfile, error) {
	var p entity.ProfessionalProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Slug, &p.DisplayName, &p.ServiceName,
		&p.HourlyRate, &p.Currency, &p.Bio, &p.ServiceAddress, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *entity.ProfessionalProfile) error {
	query := `
		INSERT INTO professional_profiles (
			id, user_id, slug, display_name, service_name,
			hourly_rate, currency, bio, service_address, is_active,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			slug = EXCLUDED.slug,
			display_name = EXCLUDED.display_name,
			service_name = EXCLUDED.service_name,
			hourly_rate = EXCLUDED.hourly_rate,
			currency = EXCLUDED.currency,
			bio = EXCLUDED.bio,
			service_address = EXCLUDED.service_address,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.UserID, profile.Slug, profile.DisplayName, profile.ServiceName,
		profile.HourlyRate, profile.Currency, profile.Bio, profile.ServiceAddress, profile.IsActive,
		profile.CreatedAt, profile.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID.String()),
		)
		return fmt.Errorf("upsert profile for user %s: %w", profile.UserID.String(), err)
	}

	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProfessionalProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM professional_profiles WHERE id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile", zap.Error(err), zap.String("profile_id", id.String()))
		return nil, fmt.Errorf("find profile %s: %w", id.String(), err)
	}

	return profile, nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.ProfessionalProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM professional_profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile by user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find profile for user %s: %w", userID.String(), err)
	}

	return profile, nil
}

func (r *profileRepository) FindBySlug(ctx context.Context, slug string) (*entity.ProfessionalProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM professional_profiles WHERE slug = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find profile by slug %s: %w", slug, err)
	}

	return profile, nil
}

func (r *profileRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.ProfessionalProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM professional_profiles
		WHERE is_active = TRUE
		ORDER BY display_name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []entity.ProfessionalProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	return profiles, rows.Err()
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM professional_profiles WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}
