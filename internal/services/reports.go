package services

import (
	"context"
	"errors"
	"time"

	"github.com/BerylCAtieno/file-forensics-api/internal/extractor"
	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/repository"
	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

type ReportService interface {
	Extract(ctx context.Context, req *models.UploadRequest) (*models.Report, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	GetArtifact(ctx context.Context, key string) ([]byte, error)
}

type reportService struct {
	pipeline *Pipeline
	repo     repository.Repository
	storage  storage.Storage
	logger   *utils.Logger
}

// NewService builds the report service. repo and store may be nil when report history
// or artifact retrieval are disabled.
func NewService(pipeline *Pipeline, repo repository.Repository, store storage.Storage, logger *utils.Logger) ReportService {
	return &reportService{
		pipeline: pipeline,
		repo:     repo,
		storage:  store,
		logger:   logger,
	}
}

func (s *reportService) Extract(ctx context.Context, req *models.UploadRequest) (*models.Report, error) {
	id := utils.RequestIDFrom(ctx)
	if id == "" {
		id = utils.GenerateID()
	}

	blob := &models.FileBlob{
		ID:       id,
		Data:     req.File,
		Filename: req.Filename,
		Ext:      extractor.Extension(req.Filename),
	}

	result := s.pipeline.Analyze(ctx, blob)

	report := &models.Report{
		ID:        blob.ID,
		File:      req.Filename,
		Type:      blob.Ext,
		Metadata:  result,
		CreatedAt: time.Now().UTC(),
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, report); err != nil {
			// History is best effort; the caller still gets the report.
			s.logger.Error("Failed to save report", "error", err, "id", report.ID)
		}
	}

	return report, nil
}

func (s *reportService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if s.repo == nil {
		return nil, utils.NewNotFoundError("Report history is disabled")
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get report", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve report")
	}
	if report == nil {
		return nil, utils.NewNotFoundError("Report not found")
	}

	return report, nil
}

func (s *reportService) GetArtifact(ctx context.Context, key string) ([]byte, error) {
	if s.storage == nil {
		return nil, utils.NewNotFoundError("Artifact storage is disabled")
	}

	data, err := s.storage.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewNotFoundError("Artifact not found")
	}
	if errors.Is(err, storage.ErrInvalidKey) {
		return nil, utils.NewBadRequestError("Invalid artifact key")
	}
	if err != nil {
		s.logger.Error("Failed to get artifact", "error", err, "key", key)
		return nil, utils.NewInternalError("Failed to retrieve artifact")
	}

	return data, nil
}
