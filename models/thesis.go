package models

// Thesis represents one PhD thesis record.
//
// AdvisorProfileID weakly references the supervising Faculty row.
type Thesis struct {
	ID              uint   `json:"_id" gorm:"primaryKey"`
	Title           string `json:"title" gorm:"not null"`
	Abstract        string `json:"abstract,omitempty" gorm:"type:text"`
	Link            string `json:"link,omitempty"`
	PublicationYear int    `json:"publication_year" gorm:"index"`
	DocumentType    string `json:"document_type" gorm:"index"`

	Author           string `json:"author" gorm:"not null"`
	AdvisorName      string `json:"advisor_name,omitempty"`
	AdvisorProfileID *uint  `json:"advisor_profile,omitempty" gorm:"index"`
}

// TableName sets the explicit table name for GORM.
func (Thesis) TableName() string {
	return "theses"
}
