package model

import "github.com/google/uuid"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadArchived  LeadStatus = "archived" // Archival replaces hard delete
)

// Lead is a sales prospect. Leads are archived rather than deleted to keep
// referential history intact.
type Lead struct {
	BaseModel
	FullName string     `gorm:"type:varchar(255);not null" json:"full_name" validate:"required"`
	Email    string     `gorm:"type:varchar(255);index" json:"email" validate:"omitempty,email"`
	Phone    string     `gorm:"type:varchar(20)" json:"phone"`
	Company  string     `gorm:"type:varchar(255)" json:"company"`
	Source   string     `gorm:"type:varchar(100)" json:"source"` // e.g. "website", "referral"
	Status   LeadStatus `gorm:"type:varchar(20);default:'new'" json:"status"`
	Notes    string     `gorm:"type:text" json:"notes"`

	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	PackageID    *uuid.UUID `gorm:"type:uuid;index" json:"package_id"`
	Package      *Package   `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

// ValidStatusTransition reports whether a lead may move from one status to
// another. Archival is allowed from any status; archived leads are terminal.
func ValidStatusTransition(from, to LeadStatus) bool {
	if from == LeadArchived {
		return false
	}
	if to == LeadArchived {
		return true
	}
	switch from {
	case LeadNew:
		return to == LeadContacted
	case LeadContacted:
		return to == LeadQualified || to == LeadNew
	case LeadQualified:
		return to == LeadConverted || to == LeadContacted
	case LeadConverted:
		return false
	}
	return false
}
