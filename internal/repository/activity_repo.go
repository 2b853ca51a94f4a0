package repository

import (
	"go-crm-api/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	FindActive() ([]model.Activity, error)
	FindAll() ([]model.Activity, error)
	FindByID(id uint) (*model.Activity, error)
	FindByName(name string) (*model.Activity, error)
	SeedDefaults() error
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db}
}

func (r *activityRepo) FindActive() ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.Where("status = ?", model.ActivityActive).Order("id").Find(&activities).Error
	return activities, err
}

func (r *activityRepo) FindAll() ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.Order("id").Find(&activities).Error
	return activities, err
}

func (r *activityRepo) FindByID(id uint) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepo) FindByName(name string) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.Where("name = ?", name).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// SeedDefaults creates the default activity catalog if missing
func (r *activityRepo) SeedDefaults() error {
	for _, a := range model.DefaultActivities {
		var existing model.Activity
		if err := r.db.Where("name = ?", a.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			a.Status = model.ActivityActive
			if err := r.db.Create(&a).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
