package model

// ActivityStatus marks whether an activity is selectable in permission grids
type ActivityStatus string

const (
	ActivityActive   ActivityStatus = "active"
	ActivityInactive ActivityStatus = "inactive"
)

// Activity is a permissionable unit of functionality (e.g. "Lead Management").
// Activities are seeded at deployment and read-only at runtime.
type Activity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category    string         `gorm:"type:varchar(50)" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Status      ActivityStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
}

// Well-known activity names used when wiring route guards
const (
	ActivityLeads       = "Lead Management"
	ActivityUsers       = "User Management"
	ActivityAdmins      = "Admin Management"
	ActivityDepartments = "Department Management"
	ActivityPackages    = "Package Management"
	ActivityPermissions = "Permission Management"
	ActivityDashboard   = "Dashboard"
	ActivityReports     = "Reports"
)

// DefaultActivities is the seeded activity catalog
var DefaultActivities = []Activity{
	{Name: ActivityLeads, Category: "crm", Description: "Create, edit, assign and archive leads"},
	{Name: ActivityDashboard, Category: "crm", Description: "View dashboard statistics"},
	{Name: ActivityReports, Category: "crm", Description: "View and export reports"},
	{Name: ActivityUsers, Category: "administration", Description: "Manage user accounts"},
	{Name: ActivityAdmins, Category: "administration", Description: "Manage admin accounts"},
	{Name: ActivityDepartments, Category: "administration", Description: "Manage departments and subroles"},
	{Name: ActivityPermissions, Category: "administration", Description: "Assign role, admin and special-user permissions"},
	{Name: ActivityPackages, Category: "billing", Description: "Manage packages and discounts"},
}
