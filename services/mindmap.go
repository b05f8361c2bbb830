package services

import (
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-hub/models"
)

// Project type labels of the mind-map hierarchy.
const (
	ProjectTypeThesis   = "PHD Thesis"
	ProjectTypeResearch = "Research"
)

// MindMapService walks the browsing hierarchy
// Category -> Department/School/Centre -> Faculty -> ProjectType -> Document
// and reverse-derives hierarchy positions for raw documents.
type MindMapService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewMindMapService creates a new MindMapService.
func NewMindMapService(db *gorm.DB, logger *zap.Logger) *MindMapService {
	return &MindMapService{DB: db, Logger: logger}
}

// NodeRef is one node of a mind-map listing (id plus display label).
type NodeRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// Categories returns the static root categories of the hierarchy.
func (s *MindMapService) Categories() []string {
	return []string{BucketDepartments, BucketSchools, BucketCentres}
}

// ProjectTypes returns the static project type layer.
func (s *MindMapService) ProjectTypes() []string {
	return []string{ProjectTypeThesis, ProjectTypeResearch}
}

// DepartmentsByBucket lists the departments falling into one hierarchy
// bucket, sorted by name. The bucket is resolved with the same classification
// heuristic the directory uses.
func (s *MindMapService) DepartmentsByBucket(bucket string) ([]NodeRef, error) {
	var depts []models.Department
	if err := s.DB.Order("name asc").Find(&depts).Error; err != nil {
		return nil, err
	}
	nodes := make([]NodeRef, 0, len(depts))
	for _, d := range depts {
		if Bucket(d) != bucket {
			continue
		}
		nodes = append(nodes, NodeRef{ID: strconv.FormatUint(uint64(d.ID), 10), Name: d.Name})
	}
	return nodes, nil
}

// FacultiesByDepartment lists the faculty members of one department, sorted
// by name. An unparseable id yields an empty list, not an error.
func (s *MindMapService) FacultiesByDepartment(departmentID string) ([]NodeRef, error) {
	id, ok := parseID(departmentID)
	if !ok {
		return []NodeRef{}, nil
	}
	var faculties []models.Faculty
	if err := s.DB.Where("department_id = ?", id).Order("name asc").Find(&faculties).Error; err != nil {
		return nil, err
	}
	nodes := make([]NodeRef, 0, len(faculties))
	for _, f := range faculties {
		nodes = append(nodes, NodeRef{ID: strconv.FormatUint(uint64(f.ID), 10), Name: f.Name})
	}
	return nodes, nil
}

// ThesesByFaculty lists the PhD theses supervised by one faculty member,
// newest first. An unparseable id yields an empty list, not an error.
func (s *MindMapService) ThesesByFaculty(facultyID string) ([]NodeRef, error) {
	id, ok := parseID(facultyID)
	if !ok {
		return []NodeRef{}, nil
	}
	var theses []models.Thesis
	err := s.DB.Where("advisor_profile_id = ?", id).
		Order("publication_year desc, title asc").
		Find(&theses).Error
	if err != nil {
		return nil, err
	}
	nodes := make([]NodeRef, 0, len(theses))
	for _, t := range theses {
		nodes = append(nodes, NodeRef{ID: strconv.FormatUint(uint64(t.ID), 10), Title: t.Title})
	}
	return nodes, nil
}

// ResearchByFaculty lists the research papers one faculty member is matched
// on, newest first. An unparseable id yields an empty list, not an error.
func (s *MindMapService) ResearchByFaculty(facultyID string) ([]NodeRef, error) {
	id, ok := parseID(facultyID)
	if !ok {
		return []NodeRef{}, nil
	}
	var papers []models.ResearchPaper
	err := s.DB.
		Where("id IN (?)", s.DB.Model(&models.PaperAuthor{}).
			Select("paper_id").
			Where("matched_profile_id = ?", id)).
		Order("publication_year desc, title asc").
		Find(&papers).Error
	if err != nil {
		return nil, err
	}
	nodes := make([]NodeRef, 0, len(papers))
	for _, p := range papers {
		nodes = append(nodes, NodeRef{ID: strconv.FormatUint(uint64(p.ID), 10), Title: p.Title})
	}
	return nodes, nil
}

// ThesisByID returns one thesis card. Invalid ids report NotFound.
func (s *MindMapService) ThesisByID(thesisID string) (*models.Thesis, error) {
	id, ok := parseID(thesisID)
	if !ok {
		return nil, notFoundf("invalid thesis id %q", thesisID)
	}
	var thesis models.Thesis
	if err := s.DB.First(&thesis, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("thesis %d", id)
		}
		return nil, err
	}
	return &thesis, nil
}

// ResearchByID returns one research paper card with its ordered author list.
// Invalid ids report NotFound.
func (s *MindMapService) ResearchByID(researchID string) (*models.ResearchPaper, error) {
	id, ok := parseID(researchID)
	if !ok {
		return nil, notFoundf("invalid research paper id %q", researchID)
	}
	var paper models.ResearchPaper
	err := s.DB.
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("paper_authors.position asc, paper_authors.id asc")
		}).
		First(&paper, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("research paper %d", id)
		}
		return nil, err
	}
	return &paper, nil
}

// MindMapPath is the reconstructed hierarchy position of one raw document.
// All identifiers are stringified.
type MindMapPath struct {
	ProjectType  string `json:"project_type"`
	FacultyID    string `json:"faculty_id"`
	DepartmentID string `json:"department_id"`
	Category     string `json:"category"`
	DocID        string `json:"doc_id"`
}

// NormalizeDocID unwraps an identifier that may arrive as a bare string, a
// number, or an object wrapping the id (a serialization quirk of exported
// documents, e.g. {"$oid": "..."}). Returns false when no id can be
// extracted.
func NormalizeDocID(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case map[string]any:
		for _, key := range []string{"$oid", "_id", "id"} {
			if inner, ok := t[key]; ok {
				return NormalizeDocID(inner)
			}
		}
		if len(t) == 1 {
			for _, inner := range t {
				return NormalizeDocID(inner)
			}
		}
		return "", false
	default:
		return "", false
	}
}

// matchedFacultyRef extracts the faculty weak reference of a raw document.
// Theses carry it at contributor.advisor.matched_profile; research documents
// use the first author entry with a non-null matched_profile (later matched
// authors are ignored, the path reflects one faculty per document).
func matchedFacultyRef(doc map[string]any, isResearch bool) (string, bool) {
	if isResearch {
		authors, ok := doc["authors"].([]any)
		if !ok {
			return "", false
		}
		for _, raw := range authors {
			author, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if ref, ok := NormalizeDocID(author["matched_profile"]); ok {
				return ref, true
			}
		}
		return "", false
	}
	contributor, ok := doc["contributor"].(map[string]any)
	if !ok {
		return "", false
	}
	advisor, ok := contributor["advisor"].(map[string]any)
	if !ok {
		return "", false
	}
	return NormalizeDocID(advisor["matched_profile"])
}

// ResolveOpenPath reverse-derives the mind-map position of one raw document:
// classify it as research or thesis, extract and normalize the matched
// faculty reference, then resolve faculty and department strictly. Every
// failed lookup terminates the derivation, there is no partial path.
func (s *MindMapService) ResolveOpenPath(doc map[string]any) (*MindMapPath, error) {
	if len(doc) == 0 {
		return nil, badRequestf("empty document")
	}

	eid, isResearch := doc["document_eid"]
	if isResearch && (eid == nil || eid == "") {
		isResearch = false
	}
	projectType := ProjectTypeThesis
	if isResearch {
		projectType = ProjectTypeResearch
	}

	ref, ok := matchedFacultyRef(doc, isResearch)
	if !ok {
		return nil, badRequestf("document has no matched faculty profile")
	}

	facultyID, ok := parseID(ref)
	if !ok {
		return nil, notFoundf("faculty %q", ref)
	}
	var faculty models.Faculty
	if err := s.DB.First(&faculty, facultyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("faculty %d", facultyID)
		}
		return nil, err
	}

	// Strict here, unlike the directory aggregates: a dangling department
	// reference means the document has no place in the hierarchy.
	var dept models.Department
	if err := s.DB.First(&dept, faculty.DepartmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("department %d", faculty.DepartmentID)
		}
		return nil, err
	}

	docID := ""
	for _, key := range []string{"_id", "id"} {
		if v, ok := doc[key]; ok {
			if id, ok := NormalizeDocID(v); ok {
				docID = id
				break
			}
		}
	}

	return &MindMapPath{
		ProjectType:  projectType,
		FacultyID:    strconv.FormatUint(uint64(faculty.ID), 10),
		DepartmentID: strconv.FormatUint(uint64(dept.ID), 10),
		Category:     Bucket(dept),
		DocID:        docID,
	}, nil
}
