package models

// Department category values. An empty Category means the category was never
// set explicitly and has to be inferred from the department name.
const (
	CategoryDepartment  = "Department"
	CategorySchool      = "School"
	CategoryCentre      = "Centre"
	CategoryResearchLab = "Research Lab / Facility"
	CategoryOther       = "Other"
)

// Department represents an academic unit (department, school, centre or lab).
type Department struct {
	ID       uint   `json:"_id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"index;not null"`
	Code     string `json:"code" gorm:"uniqueIndex;not null"`
	Category string `json:"category,omitempty" gorm:"index;default:''"`
}

// TableName sets the explicit table name for GORM.
func (Department) TableName() string {
	return "departments"
}
