package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-crm-api/internal/mailer"
	"go-crm-api/internal/metrics"
	"go-crm-api/internal/model"
	"go-crm-api/internal/repository"
	"go-crm-api/internal/search"
	"go-crm-api/internal/ws"
	"go-crm-api/pkg/validator"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrInvalidTransition = errors.New("invalid lead status transition")
	ErrAssigneeInactive  = errors.New("assignee not found or inactive")
)

type CreateLeadRequest struct {
	FullName  string     `json:"full_name" validate:"required"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Source    string     `json:"source"`
	Notes     string     `json:"notes"`
	PackageID *uuid.UUID `json:"package_id"`
}

type UpdateLeadRequest struct {
	FullName  string     `json:"full_name" validate:"required"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Source    string     `json:"source"`
	Notes     string     `json:"notes"`
	PackageID *uuid.UUID `json:"package_id"`
}

type LeadService interface {
	Create(ctx context.Context, req *CreateLeadRequest, createdBy string) (*model.Lead, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateLeadRequest, updatedBy string) (*model.Lead, error)
	Get(id uuid.UUID) (*model.Lead, error)
	List(filter repository.LeadFilter) ([]model.Lead, int64, error)
	Assign(ctx context.Context, leadID, userID uuid.UUID, updatedBy string) (*model.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus, updatedBy string) (*model.Lead, error)
	Archive(ctx context.Context, id uuid.UUID, updatedBy string) (*model.Lead, error)
	Search(ctx context.Context, query string, limit int) ([]model.Lead, error)
	Stats() (*repository.LeadStats, error)

	// Maintenance entry points driven by the cron scheduler
	ArchiveStale(ctx context.Context, olderThan time.Duration) (int, error)
	ReindexAll(ctx context.Context) (int, error)
}

type leadService struct {
	leadRepo repository.LeadRepository
	userRepo repository.UserRepository
	pkgRepo  repository.PackageRepository
	index    search.LeadIndex
	mail     mailer.Mailer
	hub      *ws.Hub
	log      *logrus.Logger
}

func NewLeadService(
	leadRepo repository.LeadRepository,
	userRepo repository.UserRepository,
	pkgRepo repository.PackageRepository,
	index search.LeadIndex,
	mail mailer.Mailer,
	hub *ws.Hub,
	log *logrus.Logger,
) LeadService {
	return &leadService{
		leadRepo: leadRepo,
		userRepo: userRepo,
		pkgRepo:  pkgRepo,
		index:    index,
		mail:     mail,
		hub:      hub,
		log:      log,
	}
}

// indexLead writes through to the search index. Index failures are logged,
// never surfaced — the database row is the source of truth.
func (s *leadService) indexLead(ctx context.Context, lead *model.Lead) {
	if err := s.index.Index(ctx, lead); err != nil {
		if !errors.Is(err, search.ErrDisabled) {
			s.log.WithError(err).WithField("lead_id", lead.ID).Warn("failed to index lead")
		}
		return
	}
	metrics.LeadsIndexed.Inc()
}

func (s *leadService) Create(ctx context.Context, req *CreateLeadRequest, createdBy string) (*model.Lead, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.PackageID != nil {
		if _, err := s.pkgRepo.FindByID(*req.PackageID); err != nil {
			return nil, ErrPackageNotFound
		}
	}

	lead := &model.Lead{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Source:    req.Source,
		Notes:     req.Notes,
		Status:    model.LeadNew,
		PackageID: req.PackageID,
	}
	lead.CreatedBy = createdBy
	lead.UpdatedBy = createdBy

	if err := s.leadRepo.Create(lead); err != nil {
		return nil, err
	}

	s.indexLead(ctx, lead)
	s.hub.BroadcastEvent(ws.EventLeadCreated, lead)
	return lead, nil
}

func (s *leadService) Update(ctx context.Context, id uuid.UUID, req *UpdateLeadRequest, updatedBy string) (*model.Lead, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	lead, err := s.leadRepo.FindByID(id)
	if err != nil {
		return nil, ErrLeadNotFound
	}

	if req.PackageID != nil {
		if _, err := s.pkgRepo.FindByID(*req.PackageID); err != nil {
			return nil, ErrPackageNotFound
		}
	}

	lead.FullName = req.FullName
	lead.Email = req.Email
	lead.Phone = req.Phone
	lead.Company = req.Company
	lead.Source = req.Source
	lead.Notes = req.Notes
	lead.PackageID = req.PackageID
	lead.UpdatedBy = updatedBy

	if err := s.leadRepo.Update(lead); err != nil {
		return nil, err
	}

	s.indexLead(ctx, lead)
	return lead, nil
}

func (s *leadService) Get(id uuid.UUID) (*model.Lead, error) {
	lead, err := s.leadRepo.FindByID(id)
	if err != nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

func (s *leadService) List(filter repository.LeadFilter) ([]model.Lead, int64, error) {
	return s.leadRepo.FindAll(filter)
}

func (s *leadService) Assign(ctx context.Context, leadID, userID uuid.UUID, updatedBy string) (*model.Lead, error) {
	lead, err := s.leadRepo.FindByID(leadID)
	if err != nil {
		return nil, ErrLeadNotFound
	}

	assignee, err := s.userRepo.FindByID(userID)
	if err != nil || !assignee.IsActive {
		return nil, ErrAssigneeInactive
	}

	lead.AssignedToID = &userID
	lead.UpdatedBy = updatedBy
	if err := s.leadRepo.Update(lead); err != nil {
		return nil, err
	}

	if err := s.mail.SendLeadAssigned(assignee.Email, lead); err != nil {
		s.log.WithError(err).WithField("lead_id", lead.ID).Warn("failed to send assignment mail")
	}
	s.hub.BroadcastEvent(ws.EventLeadAssigned, map[string]interface{}{
		"lead_id":     lead.ID,
		"assigned_to": userID,
	})

	return s.leadRepo.FindByID(leadID)
}

func (s *leadService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus, updatedBy string) (*model.Lead, error) {
	lead, err := s.leadRepo.FindByID(id)
	if err != nil {
		return nil, ErrLeadNotFound
	}

	if !model.ValidStatusTransition(lead.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lead.Status, status)
	}

	lead.Status = status
	lead.UpdatedBy = updatedBy
	if err := s.leadRepo.Update(lead); err != nil {
		return nil, err
	}

	s.indexLead(ctx, lead)
	s.hub.BroadcastEvent(ws.EventLeadStatus, map[string]interface{}{
		"lead_id": lead.ID,
		"status":  status,
	})
	return lead, nil
}

// Archive soft-retires a lead; the archival status replaces hard deletion
func (s *leadService) Archive(ctx context.Context, id uuid.UUID, updatedBy string) (*model.Lead, error) {
	return s.UpdateStatus(ctx, id, model.LeadArchived, updatedBy)
}

// Search queries the index and hydrates results from the database. Without
// a configured index it falls back to SQL pattern matching.
func (s *leadService) Search(ctx context.Context, query string, limit int) ([]model.Lead, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	ids, err := s.index.Search(ctx, query, limit)
	if errors.Is(err, search.ErrDisabled) {
		return s.leadRepo.SearchLike(query, limit)
	}
	if err != nil {
		s.log.WithError(err).Warn("search index query failed, falling back to SQL")
		return s.leadRepo.SearchLike(query, limit)
	}
	if len(ids) == 0 {
		return []model.Lead{}, nil
	}
	return s.leadRepo.FindByIDs(ids)
}

func (s *leadService) Stats() (*repository.LeadStats, error) {
	return s.leadRepo.GetStats()
}

// ArchiveStale archives unconverted leads untouched for longer than the
// given duration. Run nightly by the scheduler.
func (s *leadService) ArchiveStale(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.leadRepo.FindStaleBefore(time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	archived := 0
	for i := range stale {
		lead := &stale[i]
		lead.Status = model.LeadArchived
		lead.UpdatedBy = "system"
		if err := s.leadRepo.Update(lead); err != nil {
			s.log.WithError(err).WithField("lead_id", lead.ID).Warn("failed to archive stale lead")
			continue
		}
		s.indexLead(ctx, lead)
		archived++
	}
	if archived > 0 {
		metrics.LeadsArchivedBySweep.Add(float64(archived))
	}
	return archived, nil
}

// ReindexAll rewrites every lead into the search index
func (s *leadService) ReindexAll(ctx context.Context) (int, error) {
	leads, _, err := s.leadRepo.FindAll(repository.LeadFilter{})
	if err != nil {
		return 0, err
	}
	indexed := 0
	for i := range leads {
		if err := s.index.Index(ctx, &leads[i]); err != nil {
			if errors.Is(err, search.ErrDisabled) {
				return 0, nil
			}
			s.log.WithError(err).WithField("lead_id", leads[i].ID).Warn("failed to reindex lead")
			continue
		}
		indexed++
	}
	return indexed, nil
}
