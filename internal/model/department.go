package model

// Department groups users under a named unit with an ordered list of
// free-form subrole labels. Subroles have no identity of their own outside
// the containing department.
type Department struct {
	BaseModel
	Name        string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"department_name" validate:"required"`
	Subroles    []string `gorm:"serializer:json" json:"subroles"`
	IsSalesTeam bool     `gorm:"default:false" json:"is_sales_team"` // At most one department may hold true
	IsActive    bool     `gorm:"default:true" json:"is_active"`
}

// HasSubrole reports whether the given label is one of the department's subroles
func (d *Department) HasSubrole(name string) bool {
	for _, s := range d.Subroles {
		if s == name {
			return true
		}
	}
	return false
}
