package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faculty-hub/models"
)

func newDirectoryService(t *testing.T) *DirectoryService {
	t.Helper()
	return NewDirectoryService(newTestDB(t), nopLogger(), "IIT Delhi")
}

func TestListFacultyPagination(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Computer Science", "CSE", "")
	for i := 1; i <= 20; i++ {
		seedFaculty(t, s.DB, fmt.Sprintf("Faculty %02d", i), dept.ID, i)
	}

	page, err := s.ListFaculty(2, 9, "hIndex", "desc")
	require.NoError(t, err)

	require.Len(t, page.Data, 9)
	// Default order is hIndex descending, so page two starts at 11.
	assert.Equal(t, 11, page.Data[0].HIndex)
	assert.Equal(t, 3, page.Data[8].HIndex)
	assert.Equal(t, dept.Name, page.Data[0].Department.Name)

	assert.Equal(t, int64(20), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestListFacultyClampsInputs(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Physics", "PHY", "")
	seedFaculty(t, s.DB, "Solo", dept.ID, 4)

	page, err := s.ListFaculty(-3, 0, "bogus", "sideways")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 9, page.Pagination.Limit)
	require.Len(t, page.Data, 1)
}

func TestListFacultySortByName(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Chemistry", "CHM", "")
	seedFaculty(t, s.DB, "Charlie", dept.ID, 1)
	seedFaculty(t, s.DB, "Alice", dept.ID, 2)
	seedFaculty(t, s.DB, "Bob", dept.ID, 3)

	page, err := s.ListFaculty(1, 9, "name", "asc")
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Alice", page.Data[0].Name)
	assert.Equal(t, "Bob", page.Data[1].Name)
	assert.Equal(t, "Charlie", page.Data[2].Name)
}

func TestListFacultyDropsDanglingDepartments(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Mathematics", "MTH", "")
	seedFaculty(t, s.DB, "Joined", dept.ID, 10)
	seedFaculty(t, s.DB, "Dangling", dept.ID+999, 20)

	page, err := s.ListFaculty(1, 9, "hIndex", "desc")
	require.NoError(t, err)

	// The dangling row is dropped from the data but still counted in total.
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Joined", page.Data[0].Name)
	assert.Equal(t, int64(2), page.Pagination.Total)
}

func TestGroupedByDepartment(t *testing.T) {
	s := newDirectoryService(t)
	school := seedDepartment(t, s.DB, "School of Information Technology", "SIT", "")
	csDept := seedDepartment(t, s.DB, "Computer Science", "CSE", "")
	seedFaculty(t, s.DB, "A", school.ID, 5)
	seedFaculty(t, s.DB, "B", school.ID, 6)
	seedFaculty(t, s.DB, "C", csDept.ID, 10)

	grouped, err := s.GroupedByDepartment("")
	require.NoError(t, err)
	require.Len(t, grouped.Departments, 2)
	assert.Equal(t, 2, grouped.TotalDepartments)
	assert.Equal(t, 3, grouped.TotalFaculty)

	// Groups are sorted by department name.
	assert.Equal(t, "Computer Science", grouped.Departments[0].Department.Name)
	assert.Equal(t, "School of Information Technology", grouped.Departments[1].Department.Name)

	sit := grouped.Departments[1]
	assert.Equal(t, models.CategorySchool, sit.Department.Category)
	assert.Equal(t, 2, sit.Stats.TotalFaculty)
	assert.Equal(t, 5.5, sit.Stats.AvgHIndex)
	// Members ordered by hIndex descending.
	assert.Equal(t, "B", sit.Faculties[0].Name)
}

func TestGroupedByDepartmentCategoryFilter(t *testing.T) {
	s := newDirectoryService(t)
	school := seedDepartment(t, s.DB, "School of Design", "SOD", "")
	centre := seedDepartment(t, s.DB, "Centre for Biomedical Engineering", "CBME", "")
	seedFaculty(t, s.DB, "S", school.ID, 3)
	seedFaculty(t, s.DB, "C", centre.ID, 4)

	grouped, err := s.GroupedByDepartment("schools")
	require.NoError(t, err)
	require.Len(t, grouped.Departments, 1)
	assert.Equal(t, "School of Design", grouped.Departments[0].Department.Name)

	// Unknown filter values mean no filter at all.
	grouped, err = s.GroupedByDepartment("whatever")
	require.NoError(t, err)
	assert.Len(t, grouped.Departments, 2)
}

func TestSearchShortQuery(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Physics", "PHY", "")
	seedFaculty(t, s.DB, "Someone", dept.ID, 1)

	for _, q := range []string{"", "a", "  x  "} {
		result, err := s.Search(q, 10)
		require.NoError(t, err)
		assert.Empty(t, result.Faculties)
		assert.Empty(t, result.Departments)
		assert.Equal(t, 0, result.Total)
	}
}

func TestSearchMatchesFacultyAndDepartmentNames(t *testing.T) {
	s := newDirectoryService(t)
	physics := seedDepartment(t, s.DB, "Physics", "PHY", "")
	biology := seedDepartment(t, s.DB, "Biology", "BIO", "")
	seedFaculty(t, s.DB, "Ramesh Kumar", physics.ID, 12)
	seedFaculty(t, s.DB, "Anita Rao", biology.ID, 8)

	// Case-insensitive match on faculty name.
	result, err := s.Search("ramesh", 10)
	require.NoError(t, err)
	require.Len(t, result.Faculties, 1)
	assert.Equal(t, "Ramesh Kumar", result.Faculties[0].Name)

	// A department name match pulls in its faculty and the department itself.
	result, err = s.Search("biology", 10)
	require.NoError(t, err)
	require.Len(t, result.Faculties, 1)
	assert.Equal(t, "Anita Rao", result.Faculties[0].Name)
	require.Len(t, result.Departments, 1)
	assert.Equal(t, "Biology", result.Departments[0].Name)
	assert.Equal(t, 2, result.Total)
}

func TestGetFaculty(t *testing.T) {
	s := newDirectoryService(t)
	school := seedDepartment(t, s.DB, "School of Design", "SOD", "")
	faculty := seedFaculty(t, s.DB, "Prof X", school.ID, 7)

	detail, err := s.GetFaculty(fmt.Sprint(faculty.ID))
	require.NoError(t, err)
	assert.Equal(t, "Prof X", detail.Name)
	assert.Equal(t, models.CategorySchool, detail.Department.Category)
	assert.Equal(t, []string{"all", "schools"}, detail.Tags)

	_, err = s.GetFaculty("not-a-number")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = s.GetFaculty("99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetFacultyToleratesDanglingDepartment(t *testing.T) {
	s := newDirectoryService(t)
	faculty := seedFaculty(t, s.DB, "Orphan", 424242, 7)

	detail, err := s.GetFaculty(fmt.Sprint(faculty.ID))
	require.NoError(t, err)
	assert.Equal(t, "Orphan", detail.Name)
	assert.Equal(t, []string{"all"}, detail.Tags)
	assert.Zero(t, detail.Department.ID)
}

func seedPaper(t *testing.T, s *DirectoryService, eid, title string, year int, authors []models.PaperAuthor) {
	t.Helper()
	paper := models.ResearchPaper{
		DocumentEID:     eid,
		Title:           title,
		PublicationYear: year,
		DocumentType:    "Article",
		Authors:         authors,
	}
	require.NoError(t, s.DB.Create(&paper).Error)
}

func TestCoworkersDeduplicatesByAuthorID(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Computer Science", "CSE", "")
	faculty := seedFaculty(t, s.DB, "Prof Y", dept.ID, 15)

	self := faculty.ID
	seedPaper(t, s, "2-s2.0-001", "First Paper", 2021, []models.PaperAuthor{
		{Position: 0, AuthorID: "self-1", AuthorName: "Prof Y", MatchedProfileID: &self},
		{Position: 1, AuthorID: "a1", AuthorName: "Alice", AuthorAffiliation: "MIT"},
		{Position: 2, AuthorID: "b1", AuthorName: "Bob"},
	})
	seedPaper(t, s, "2-s2.0-002", "Second Paper", 2022, []models.PaperAuthor{
		{Position: 0, AuthorID: "self-1", AuthorName: "Prof Y", MatchedProfileID: &self},
		{Position: 1, AuthorID: "a1", AuthorName: "Alice", AuthorAffiliation: "Stanford"},
	})

	result, err := s.Coworkers(fmt.Sprint(faculty.ID))
	require.NoError(t, err)

	assert.Equal(t, "Prof Y", result.Faculty.Name)
	assert.Equal(t, 2, result.Stats.TotalPapers)
	assert.Equal(t, 2, result.Stats.UniqueCoauthors)
	require.Len(t, result.CoworkersFromPapers, 2)

	// Alice keeps the context of the first shared paper only.
	alice := result.CoworkersFromPapers[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "First Paper", alice.Title)
	assert.Equal(t, "MIT", alice.Affiliation)

	// Missing affiliations fall back to Unknown.
	bob := result.CoworkersFromPapers[1]
	assert.Equal(t, "Bob", bob.Name)
	assert.Equal(t, "Unknown", bob.Affiliation)
}

func TestCoworkersIncludesSupervisedStudents(t *testing.T) {
	s := newDirectoryService(t)
	dept := seedDepartment(t, s.DB, "Centre for Biomedical Engineering", "CBME", "")
	faculty := seedFaculty(t, s.DB, "Prof Z", dept.ID, 20)

	advisor := faculty.ID
	thesis := models.Thesis{
		Title:            "Deep Learning for Protein Folding",
		PublicationYear:  2023,
		DocumentType:     "PHD Thesis",
		Author:           "Student One",
		AdvisorName:      "Prof Z",
		AdvisorProfileID: &advisor,
	}
	require.NoError(t, s.DB.Create(&thesis).Error)

	result, err := s.Coworkers(fmt.Sprint(faculty.ID))
	require.NoError(t, err)

	require.Len(t, result.StudentsSupervised, 1)
	student := result.StudentsSupervised[0]
	assert.Equal(t, "Student One", student.Name)
	assert.Equal(t, "IIT Delhi", student.Affiliation)
	assert.Equal(t, 2023, student.Year)
	assert.Equal(t, 1, result.Stats.TotalStudentsSupervised)
	assert.Equal(t, []string{"all", "centres"}, result.Faculty.Tags)
}

func TestCoworkersUnknownFaculty(t *testing.T) {
	s := newDirectoryService(t)
	_, err := s.Coworkers("31337")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Coworkers("abc")
	assert.ErrorIs(t, err, ErrBadRequest)
}
