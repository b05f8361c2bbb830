package services

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-hub/models"
)

// DirectoryService builds the faculty directory views: paginated listings,
// department groupings, search and co-authorship discovery.
type DirectoryService struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Institute string
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(db *gorm.DB, logger *zap.Logger, institute string) *DirectoryService {
	return &DirectoryService{DB: db, Logger: logger, Institute: institute}
}

// parseID parses a decimal record id from a path or query parameter.
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// DepartmentRef is the department projection embedded in faculty listings.
type DepartmentRef struct {
	ID       uint   `json:"_id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category,omitempty"`
}

// FacultyItem is one faculty row joined with its department.
type FacultyItem struct {
	ID            uint          `json:"_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	CitationCount int           `json:"citationCount"`
	HIndex        int           `json:"hIndex"`
	ResearchAreas []string      `json:"research_areas"`
	OrcID         string        `json:"orcId,omitempty"`
	ScopusID      string        `json:"scopusId,omitempty"`
	Department    DepartmentRef `json:"department"`
}

// Pagination is the metadata block attached to paginated listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// FacultyPage is the result of a paginated faculty listing.
type FacultyPage struct {
	Data       []FacultyItem `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// joinedFacultyScope restricts faculty queries to rows whose department
// reference actually resolves (inner-join semantics: dangling references are
// silently dropped from aggregate listings).
func (s *DirectoryService) joinedFacultyScope() *gorm.DB {
	return s.DB.Model(&models.Faculty{}).
		Where("department_id IN (?)", s.DB.Model(&models.Department{}).Select("id"))
}

// departmentMap loads the referenced departments into a lookup map.
func (s *DirectoryService) departmentMap(faculties []models.Faculty) (map[uint]models.Department, error) {
	ids := make([]uint, 0, len(faculties))
	seen := make(map[uint]bool, len(faculties))
	for _, f := range faculties {
		if !seen[f.DepartmentID] {
			seen[f.DepartmentID] = true
			ids = append(ids, f.DepartmentID)
		}
	}
	byID := make(map[uint]models.Department, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var depts []models.Department
	if err := s.DB.Where("id IN ?", ids).Find(&depts).Error; err != nil {
		return nil, err
	}
	for _, d := range depts {
		byID[d.ID] = d
	}
	return byID, nil
}

func facultyItem(f models.Faculty, d models.Department, withCategory bool) FacultyItem {
	ref := DepartmentRef{ID: d.ID, Name: d.Name, Code: d.Code}
	if withCategory {
		ref.Category = Classify(d)
	}
	return FacultyItem{
		ID:            f.ID,
		Name:          f.Name,
		Email:         f.Email,
		CitationCount: f.CitationCount,
		HIndex:        f.HIndex,
		ResearchAreas: f.ResearchAreas,
		OrcID:         f.OrcID,
		ScopusID:      f.ScopusID,
		Department:    ref,
	}
}

// ListFaculty returns one page of the joined, sorted faculty directory.
//
// Note: Total counts the raw faculty collection, not the successfully joined
// rows. The original system behaved this way and consumers rely on it, so it
// is kept on purpose.
func (s *DirectoryService) ListFaculty(page, limit int, sortBy, order string) (*FacultyPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 9
	}
	if limit > 100 {
		limit = 100
	}

	sortColumns := map[string]string{
		"name":   "name",
		"hIndex": "h_index",
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "h_index"
	}
	direction := "desc"
	if order == "asc" {
		direction = "asc"
	}

	var faculties []models.Faculty
	err := s.joinedFacultyScope().
		Order(column + " " + direction + ", id asc"). // secondary sort keeps pagination deterministic
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&faculties).Error
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.DB.Model(&models.Faculty{}).Count(&total).Error; err != nil {
		return nil, err
	}

	depts, err := s.departmentMap(faculties)
	if err != nil {
		return nil, err
	}

	items := make([]FacultyItem, 0, len(faculties))
	for _, f := range faculties {
		items = append(items, facultyItem(f, depts[f.DepartmentID], false))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &FacultyPage{
		Data: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// DepartmentGroup is one department with its faculty members and summary
// stats.
type DepartmentGroup struct {
	ID         uint          `json:"_id"`
	Department DepartmentRef `json:"department"`
	Faculties  []FacultyItem `json:"faculties"`
	Stats      GroupStats    `json:"stats"`
}

// GroupStats summarises one department group.
type GroupStats struct {
	TotalFaculty int     `json:"totalFaculty"`
	AvgHIndex    float64 `json:"avgHIndex"`
}

// GroupedDirectory is the department-grouped faculty listing.
type GroupedDirectory struct {
	Departments      []DepartmentGroup `json:"departments"`
	TotalDepartments int               `json:"totalDepartments"`
	TotalFaculty     int               `json:"totalFaculty"`
}

// GroupedByDepartment groups the joined faculty directory by department,
// optionally filtered by the resolved category ("departments", "schools",
// "centres", "researchlabs"). Faculties within a group are ordered by hIndex
// descending, groups by department name ascending.
func (s *DirectoryService) GroupedByDepartment(categoryQuery string) (*GroupedDirectory, error) {
	wantCategory := categoryFromQuery(categoryQuery)

	var faculties []models.Faculty
	err := s.joinedFacultyScope().
		Order("h_index desc, id asc").
		Find(&faculties).Error
	if err != nil {
		return nil, err
	}

	depts, err := s.departmentMap(faculties)
	if err != nil {
		return nil, err
	}

	groups := make(map[uint]*DepartmentGroup)
	for _, f := range faculties {
		dept, ok := depts[f.DepartmentID]
		if !ok {
			continue
		}
		category := Classify(dept)
		if wantCategory != "" && category != wantCategory {
			continue
		}
		g, ok := groups[dept.ID]
		if !ok {
			g = &DepartmentGroup{
				ID: dept.ID,
				Department: DepartmentRef{
					ID:       dept.ID,
					Name:     dept.Name,
					Code:     dept.Code,
					Category: category,
				},
			}
			groups[dept.ID] = g
		}
		g.Faculties = append(g.Faculties, facultyItem(f, dept, false))
	}

	result := &GroupedDirectory{Departments: make([]DepartmentGroup, 0, len(groups))}
	for _, g := range groups {
		sum := 0
		for _, f := range g.Faculties {
			sum += f.HIndex
		}
		g.Stats = GroupStats{
			TotalFaculty: len(g.Faculties),
			AvgHIndex:    math.Round(float64(sum)/float64(len(g.Faculties))*10) / 10,
		}
		result.Departments = append(result.Departments, *g)
		result.TotalFaculty += g.Stats.TotalFaculty
	}
	sort.Slice(result.Departments, func(i, j int) bool {
		return result.Departments[i].Department.Name < result.Departments[j].Department.Name
	})
	result.TotalDepartments = len(result.Departments)
	return result, nil
}

// SearchResult holds the combined faculty and department matches of one
// search query.
type SearchResult struct {
	Faculties   []FacultyItem   `json:"faculties"`
	Departments []DepartmentRef `json:"departments"`
	Total       int             `json:"total"`
}

// Search matches the trimmed query case-insensitively against faculty names
// and joined department names (ranked by hIndex, capped at limit), and
// independently against department names (capped at 5). Queries shorter than
// two characters return an empty result, not an error.
func (s *DirectoryService) Search(query string, limit int) (*SearchResult, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 20 {
		limit = 20
	}

	term := strings.TrimSpace(query)
	if len(term) < 2 {
		return &SearchResult{Faculties: []FacultyItem{}, Departments: []DepartmentRef{}}, nil
	}
	pattern := "%" + strings.ToLower(term) + "%"

	var faculties []models.Faculty
	err := s.joinedFacultyScope().
		Where("LOWER(name) LIKE ? OR department_id IN (?)",
			pattern,
			s.DB.Model(&models.Department{}).Select("id").Where("LOWER(name) LIKE ?", pattern)).
		Order("h_index desc, id asc").
		Limit(limit).
		Find(&faculties).Error
	if err != nil {
		return nil, err
	}

	deptMap, err := s.departmentMap(faculties)
	if err != nil {
		return nil, err
	}
	items := make([]FacultyItem, 0, len(faculties))
	for _, f := range faculties {
		items = append(items, facultyItem(f, deptMap[f.DepartmentID], false))
	}

	var deptRows []models.Department
	err = s.DB.Where("LOWER(name) LIKE ?", pattern).
		Order("name asc").
		Limit(5).
		Find(&deptRows).Error
	if err != nil {
		return nil, err
	}
	deptRefs := make([]DepartmentRef, 0, len(deptRows))
	for _, d := range deptRows {
		deptRefs = append(deptRefs, DepartmentRef{ID: d.ID, Name: d.Name, Code: d.Code, Category: Classify(d)})
	}

	return &SearchResult{
		Faculties:   items,
		Departments: deptRefs,
		Total:       len(items) + len(deptRefs),
	}, nil
}

// FacultyDetail is a single faculty with its department and hierarchy tags.
type FacultyDetail struct {
	FacultyItem
	Tags []string `json:"tags"`
}

// GetFaculty returns a single faculty member with browsing tags derived from
// its department category. A dangling department reference is tolerated here:
// the faculty is returned with just the "all" tag.
func (s *DirectoryService) GetFaculty(id string) (*FacultyDetail, error) {
	facultyID, ok := parseID(id)
	if !ok {
		return nil, badRequestf("invalid faculty id %q", id)
	}

	var faculty models.Faculty
	if err := s.DB.First(&faculty, facultyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("faculty %d", facultyID)
		}
		return nil, err
	}

	detail := &FacultyDetail{Tags: []string{"all"}}
	var dept models.Department
	if err := s.DB.First(&dept, faculty.DepartmentID).Error; err == nil {
		detail.FacultyItem = facultyItem(faculty, dept, true)
		detail.Tags = CategoryTags(Classify(dept))
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		detail.FacultyItem = facultyItem(faculty, models.Department{}, false)
		detail.FacultyItem.Department = DepartmentRef{}
	} else {
		return nil, err
	}
	return detail, nil
}

// CoworkerSummary is one deduplicated co-author together with the context of
// the first shared paper that was encountered.
type CoworkerSummary struct {
	Title           string   `json:"title"`
	PublicationYear int      `json:"publication_year"`
	DocumentType    string   `json:"document_type"`
	SubjectArea     []string `json:"subject_area"`
	Name            string   `json:"name"`
	Affiliation     string   `json:"affiliation"`
	AuthorID        string   `json:"author_id"`
	MatchedProfile  *uint    `json:"matched_profile"`
}

// SupervisedStudent is one PhD student supervised by the queried faculty.
type SupervisedStudent struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	ThesisTitle string `json:"thesis_title"`
	Year        int    `json:"year"`
}

// CoworkerStats summarises a co-authorship lookup.
type CoworkerStats struct {
	TotalPapers             int `json:"totalPapers"`
	UniqueCoauthors         int `json:"uniqueCoauthors"`
	TotalStudentsSupervised int `json:"totalStudentsSupervised"`
}

// FacultyHeader is the compact faculty block of a co-authorship response.
type FacultyHeader struct {
	Name string   `json:"name"`
	ID   uint     `json:"_id"`
	Tags []string `json:"tags"`
}

// CoworkerResult is the full co-authorship view of one faculty member.
type CoworkerResult struct {
	Faculty             FacultyHeader       `json:"faculty"`
	HIndex              int                 `json:"hIndex"`
	CitationCount       int                 `json:"citationCount"`
	ScopusID            string              `json:"scopusId"`
	CoworkersFromPapers []CoworkerSummary   `json:"coworkersFromPapers"`
	StudentsSupervised  []SupervisedStudent `json:"studentsSupervised"`
	Stats               CoworkerStats       `json:"stats"`
}

// Coworkers resolves the co-authorship view of one faculty member: every
// research paper it is matched on, the deduplicated set of co-authors across
// those papers, and the PhD theses it supervised.
//
// Deduplication keeps only the first occurrence of each author_id, in the
// order the papers come back from the store. An author appearing on several
// shared papers keeps the context of the first one — a single representative
// record per collaborator, not the full shared-paper breadth.
func (s *DirectoryService) Coworkers(id string) (*CoworkerResult, error) {
	facultyID, ok := parseID(id)
	if !ok {
		return nil, badRequestf("invalid faculty id %q", id)
	}

	var faculty models.Faculty
	if err := s.DB.First(&faculty, facultyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("faculty %d", facultyID)
		}
		return nil, err
	}

	var papers []models.ResearchPaper
	err := s.DB.
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("paper_authors.position asc, paper_authors.id asc")
		}).
		Where("id IN (?)", s.DB.Model(&models.PaperAuthor{}).
			Select("paper_id").
			Where("matched_profile_id = ?", facultyID)).
		Order("id asc").
		Find(&papers).Error
	if err != nil {
		return nil, err
	}

	coworkers := make([]CoworkerSummary, 0)
	seen := make(map[string]bool)
	for _, paper := range papers {
		for _, author := range paper.Authors {
			if author.MatchedProfileID != nil && *author.MatchedProfileID == faculty.ID {
				continue // the queried faculty itself
			}
			if seen[author.AuthorID] {
				continue
			}
			seen[author.AuthorID] = true
			affiliation := author.AuthorAffiliation
			if affiliation == "" {
				affiliation = "Unknown"
			}
			coworkers = append(coworkers, CoworkerSummary{
				Title:           paper.Title,
				PublicationYear: paper.PublicationYear,
				DocumentType:    paper.DocumentType,
				SubjectArea:     paper.SubjectArea,
				Name:            author.AuthorName,
				Affiliation:     affiliation,
				AuthorID:        author.AuthorID,
				MatchedProfile:  author.MatchedProfileID,
			})
		}
	}

	var theses []models.Thesis
	if err := s.DB.Where("advisor_profile_id = ?", facultyID).Order("id asc").Find(&theses).Error; err != nil {
		return nil, err
	}
	students := make([]SupervisedStudent, 0, len(theses))
	for _, t := range theses {
		students = append(students, SupervisedStudent{
			Name:        t.Author,
			Affiliation: s.Institute,
			ThesisTitle: t.Title,
			Year:        t.PublicationYear,
		})
	}

	tags := []string{"all"}
	var dept models.Department
	if err := s.DB.First(&dept, faculty.DepartmentID).Error; err == nil {
		tags = CategoryTags(Classify(dept))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &CoworkerResult{
		Faculty:             FacultyHeader{Name: faculty.Name, ID: faculty.ID, Tags: tags},
		HIndex:              faculty.HIndex,
		CitationCount:       faculty.CitationCount,
		ScopusID:            faculty.ScopusID,
		CoworkersFromPapers: coworkers,
		StudentsSupervised:  students,
		Stats: CoworkerStats{
			TotalPapers:             len(papers),
			UniqueCoauthors:         len(coworkers),
			TotalStudentsSupervised: len(students),
		},
	}, nil
}
