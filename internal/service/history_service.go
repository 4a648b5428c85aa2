package service

import (
	"context"

	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/repository"
)

// HistoryService exposes the archived schedule snapshots.
type HistoryService struct {
	archiveRepo *repository.SnapshotArchiveRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(archiveRepo *repository.SnapshotArchiveRepository) *HistoryService {
	return &HistoryService{archiveRepo: archiveRepo}
}

// List returns one page of snapshot metadata, newest first, and the total count.
func (s *HistoryService) List(ctx context.Context, page, perPage int) ([]model.ScheduleSnapshot, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.archiveRepo.List(ctx, perPage, (page-1)*perPage)
}

// Get returns one archived snapshot including its document.
func (s *HistoryService) Get(ctx context.Context, id int64) (*model.ScheduleSnapshot, error) {
	return s.archiveRepo.GetByID(ctx, id)
}
