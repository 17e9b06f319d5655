package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type KioskDisplayRepository interface {
	Create(ctx context.Context, d *models.KioskDisplay) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.KioskDisplay, error)
	ListByBuildingID(ctx context.Context, buildingID string) ([]*models.KioskDisplay, error)
	ListActiveBuildingIDs(ctx context.Context, seenAfter time.Time) ([]string, error)

	Touch(ctx context.Context, id uuid.UUID, seenAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type displayRepo struct{ db DB }

func NewKioskDisplayRepository(db DB) KioskDisplayRepository {
	return &displayRepo{db: db}
}

/* ---------- Create ---------- */

func (r *displayRepo) Create(ctx context.Context, d *models.KioskDisplay) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO kiosk_displays (
			id,building_id,name,notify_email,notify_phone,created_at,last_seen_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, d.BuildingID, d.Name, d.NotifyEmail, d.NotifyPhone, d.CreatedAt, d.LastSeenAt)
	return err
}

/* ---------- Reads ---------- */

func (r *displayRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.KioskDisplay, error) {
	row := r.db.QueryRow(ctx, baseSelectDisplay()+" WHERE id=$1 AND deleted_at IS NULL", id)
	d, err := scanDisplay(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrDisplayNotFound
	}
	return d, err
}

func (r *displayRepo) ListByBuildingID(ctx context.Context, buildingID string) ([]*models.KioskDisplay, error) {
	rows, err := r.db.Query(ctx, baseSelectDisplay()+" WHERE building_id=$1 AND deleted_at IS NULL ORDER BY created_at", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.KioskDisplay
	for rows.Next() {
		d, err := scanDisplay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *displayRepo) ListActiveBuildingIDs(ctx context.Context, seenAfter time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT building_id FROM kiosk_displays
		WHERE deleted_at IS NULL AND last_seen_at > $1
	`, seenAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

/* ---------- Update / Delete ---------- */

func (r *displayRepo) Touch(ctx context.Context, id uuid.UUID, seenAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE kiosk_displays SET last_seen_at=$1 WHERE id=$2 AND deleted_at IS NULL
	`, seenAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrDisplayNotFound
	}
	return nil
}

func (r *displayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE kiosk_displays SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL
	`, id)
	return err
}

/* ---------- helpers ---------- */

func baseSelectDisplay() string {
	return `
		SELECT id,building_id,name,notify_email,notify_phone,created_at,last_seen_at,deleted_at
		FROM kiosk_displays`
}

func scanDisplay(row pgx.Row) (*models.KioskDisplay, error) {
	var d models.KioskDisplay
	if err := row.Scan(
		&d.ID, &d.BuildingID, &d.Name, &d.NotifyEmail, &d.NotifyPhone,
		&d.CreatedAt, &d.LastSeenAt, &d.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
