package repository

import (
	"time"

	"go-crm-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadFilter narrows FindAll results
type LeadFilter struct {
	Status       model.LeadStatus
	AssignedToID *uuid.UUID
	Page         int
	Limit        int
}

// LeadStats feeds the dashboard overview
type LeadStats struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Contacted int64 `json:"contacted"`
	Qualified int64 `json:"qualified"`
	Converted int64 `json:"converted"`
	Archived  int64 `json:"archived"`
}

type LeadRepository interface {
	Create(lead *model.Lead) error
	Update(lead *model.Lead) error
	FindByID(id uuid.UUID) (*model.Lead, error)
	FindByIDs(ids []uuid.UUID) ([]model.Lead, error)
	FindAll(filter LeadFilter) ([]model.Lead, int64, error)
	SearchLike(query string, limit int) ([]model.Lead, error)
	FindStaleBefore(cutoff time.Time) ([]model.Lead, error)
	GetStats() (*LeadStats, error)
}

type leadRepo struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) LeadRepository {
	return &leadRepo{db}
}

func (r *leadRepo) Create(lead *model.Lead) error {
	return r.db.Create(lead).Error
}

func (r *leadRepo) Update(lead *model.Lead) error {
	return r.db.Save(lead).Error
}

func (r *leadRepo) FindByID(id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.Preload("AssignedTo").Preload("Package").First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepo) FindByIDs(ids []uuid.UUID) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.db.Preload("AssignedTo").Preload("Package").Where("id IN ?", ids).Find(&leads).Error
	return leads, err
}

func (r *leadRepo) FindAll(filter LeadFilter) ([]model.Lead, int64, error) {
	q := r.db.Model(&model.Lead{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		q = q.Offset(offset).Limit(filter.Limit)
	}

	var leads []model.Lead
	err := q.Preload("AssignedTo").Preload("Package").Order("created_at DESC").Find(&leads).Error
	return leads, total, err
}

// SearchLike is the SQL fallback used when no search index is configured
func (r *leadRepo) SearchLike(query string, limit int) ([]model.Lead, error) {
	var leads []model.Lead
	pattern := "%" + query + "%"
	err := r.db.Preload("AssignedTo").Preload("Package").
		Where("full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR company ILIKE ?",
			pattern, pattern, pattern, pattern).
		Limit(limit).
		Find(&leads).Error
	return leads, err
}

// FindStaleBefore returns unconverted leads not touched since the cutoff,
// candidates for the nightly archival sweep
func (r *leadRepo) FindStaleBefore(cutoff time.Time) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.db.
		Where("updated_at < ?", cutoff).
		Where("status NOT IN ?", []model.LeadStatus{model.LeadConverted, model.LeadArchived}).
		Find(&leads).Error
	return leads, err
}

func (r *leadRepo) GetStats() (*LeadStats, error) {
	stats := &LeadStats{}
	type row struct {
		Status model.LeadStatus
		Count  int64
	}
	var rows []row
	if err := r.db.Model(&model.Lead{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, rw := range rows {
		stats.Total += rw.Count
		switch rw.Status {
		case model.LeadNew:
			stats.New = rw.Count
		case model.LeadContacted:
			stats.Contacted = rw.Count
		case model.LeadQualified:
			stats.Qualified = rw.Count
		case model.LeadConverted:
			stats.Converted = rw.Count
		case model.LeadArchived:
			stats.Archived = rw.Count
		}
	}
	return stats, nil
}
