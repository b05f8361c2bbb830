package models

import "gorm.io/datatypes"

// ResearchPaper holds the bibliographic metadata of one Scopus-indexed
// publication.
type ResearchPaper struct {
	ID              uint                        `json:"_id" gorm:"primaryKey"`
	DocumentEID     string                      `json:"document_eid" gorm:"uniqueIndex;not null"`
	Title           string                      `json:"title" gorm:"not null"`
	Abstract        string                      `json:"abstract,omitempty" gorm:"type:text"`
	Link            string                      `json:"link,omitempty"`
	PublicationYear int                         `json:"publication_year" gorm:"index"`
	DocumentType    string                      `json:"document_type" gorm:"index"`
	CitationCount   int                         `json:"citation_count"`
	SubjectArea     datatypes.JSONSlice[string] `json:"subject_area,omitempty" gorm:"type:jsonb"`

	Authors []PaperAuthor `json:"authors" gorm:"foreignKey:PaperID"`
}

// TableName sets the explicit table name for GORM.
func (ResearchPaper) TableName() string {
	return "research_papers"
}

// PaperAuthor is one entry of a paper's ordered author list.
//
// MatchedProfileID weakly references a Faculty row; most authors are external
// and carry no match at all.
type PaperAuthor struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	PaperID  uint `json:"-" gorm:"index;not null"`
	Position int  `json:"-" gorm:"index"`

	AuthorID          string `json:"author_id" gorm:"index;not null"`
	AuthorName        string `json:"author_name" gorm:"not null"`
	AuthorAffiliation string `json:"author_affiliation,omitempty"`
	MatchedProfileID  *uint  `json:"matched_profile,omitempty" gorm:"index"`
}

// TableName sets the explicit table name for GORM.
func (PaperAuthor) TableName() string {
	return "paper_authors"
}
