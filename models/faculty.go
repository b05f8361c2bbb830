package models

import "gorm.io/datatypes"

// Faculty represents one faculty member of the institution.
//
// DepartmentID is a weak reference: a faculty row may point at a department
// that no longer exists. Aggregating queries drop such rows, the mind-map
// path resolver treats them as an error. Both behaviours are intentional.
type Faculty struct {
	ID           uint   `json:"_id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"index;not null"`
	DepartmentID uint   `json:"department" gorm:"index"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`

	CitationCount int                         `json:"citationCount"`
	HIndex        int                         `json:"hIndex" gorm:"index"`
	ResearchAreas datatypes.JSONSlice[string] `json:"research_areas,omitempty" gorm:"type:jsonb"`
	OrcID         string                      `json:"orcId,omitempty"`
	ScopusID      string                      `json:"scopusId,omitempty"`
}

// TableName sets the explicit table name for GORM.
func (Faculty) TableName() string {
	return "faculties"
}
