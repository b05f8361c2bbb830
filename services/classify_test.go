package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faculty-hub/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		dept models.Department
		want string
	}{
		{
			name: "explicit category wins over name heuristic",
			dept: models.Department{Name: "School of Something", Category: models.CategoryResearchLab},
			want: models.CategoryResearchLab,
		},
		{
			name: "school inferred from name",
			dept: models.Department{Name: "School of Information Technology"},
			want: models.CategorySchool,
		},
		{
			name: "school wins when name matches both school and centre",
			dept: models.Department{Name: "School of Interdisciplinary Centre Studies"},
			want: models.CategorySchool,
		},
		{
			name: "centre inferred from name",
			dept: models.Department{Name: "Centre for Biomedical Engineering"},
			want: models.CategoryCentre,
		},
		{
			name: "american spelling of center",
			dept: models.Department{Name: "Center for Atmospheric Sciences"},
			want: models.CategoryCentre,
		},
		{
			name: "plain name defaults to department",
			dept: models.Department{Name: "Department of Mathematics"},
			want: models.CategoryDepartment,
		},
		{
			name: "research lab is never inferred",
			dept: models.Department{Name: "Robotics Research Lab"},
			want: models.CategoryDepartment,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.dept))
		})
	}
}

func TestBucket(t *testing.T) {
	assert.Equal(t, BucketSchools, Bucket(models.Department{Name: "School of Design"}))
	assert.Equal(t, BucketCentres, Bucket(models.Department{Name: "Centre for Biomedical Engineering"}))
	assert.Equal(t, BucketDepartments, Bucket(models.Department{Name: "Physics"}))
	// Research labs have no bucket of their own.
	assert.Equal(t, BucketDepartments, Bucket(models.Department{Name: "X", Category: models.CategoryResearchLab}))
}

func TestCategoryTags(t *testing.T) {
	assert.Equal(t, []string{"all", "schools"}, CategoryTags(models.CategorySchool))
	assert.Equal(t, []string{"all", "centres"}, CategoryTags(models.CategoryCentre))
	assert.Equal(t, []string{"all", "departments"}, CategoryTags(models.CategoryDepartment))
	assert.Equal(t, []string{"all", "researchlabs"}, CategoryTags(models.CategoryResearchLab))
	assert.Equal(t, []string{"all"}, CategoryTags("something else"))
}

func TestCategoryFromQuery(t *testing.T) {
	assert.Equal(t, models.CategorySchool, categoryFromQuery("schools"))
	assert.Equal(t, models.CategoryResearchLab, categoryFromQuery("researchlabs"))
	assert.Equal(t, "", categoryFromQuery("everything"))
	assert.Equal(t, "", categoryFromQuery(""))
}
