package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/jmoiron/sqlx"
)

// Repository persists produced reports so they can be fetched again by ID.
type Repository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	ListBySHA256(ctx context.Context, sha256 string) ([]*models.Report, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, report *models.Report) error {
	result, err := json.Marshal(report.Metadata)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	var sha string
	if report.Metadata != nil && report.Metadata.Hashes != nil {
		sha = report.Metadata.Hashes.SHA256
	}

	query := `
		INSERT INTO reports (id, filename, detected_type, sha256, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.File,
		report.Type,
		sha,
		string(result),
		report.CreatedAt,
	)

	return err
}

// GetByID returns nil, nil when no report has the given id.
func (r *repository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var row models.StoredReport

	query := `
		SELECT id, filename, detected_type, sha256, result, created_at
		FROM reports
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decode(&row)
}

func (r *repository) ListBySHA256(ctx context.Context, sha256 string) ([]*models.Report, error) {
	var rows []models.StoredReport

	query := `
		SELECT id, filename, detected_type, sha256, result, created_at
		FROM reports
		WHERE sha256 = ?
		ORDER BY created_at DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, sha256); err != nil {
		return nil, err
	}

	reports := make([]*models.Report, 0, len(rows))
	for i := range rows {
		rep, err := decode(&rows[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func decode(row *models.StoredReport) (*models.Report, error) {
	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(row.Result), &result); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", row.ID, err)
	}
	return &models.Report{
		ID:        row.ID,
		File:      row.Filename,
		Type:      row.DetectedType,
		Metadata:  &result,
		CreatedAt: row.CreatedAt,
	}, nil
}
