package model

// Package is a sellable plan attached to converted leads
type Package struct {
	BaseModel
	Name            string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Description     string `gorm:"type:text" json:"description"`
	Price           int64  `gorm:"not null;default:0" json:"price" validate:"gte=0"` // Smallest currency unit
	DiscountPercent int    `gorm:"default:0" json:"discount_percent" validate:"gte=0,lte=100"`
	DurationDays    int    `gorm:"default:30" json:"duration_days" validate:"gt=0"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
}

// EffectivePrice returns the price after discount
func (p *Package) EffectivePrice() int64 {
	return p.Price - p.Price*int64(p.DiscountPercent)/100
}
