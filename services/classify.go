package services

import (
	"strings"

	"faculty-hub/models"
)

// Mind-map bucket labels. Same heuristic as Classify, plural vocabulary.
const (
	BucketDepartments = "Departments"
	BucketSchools     = "Schools"
	BucketCentres     = "Centres"
)

// Classify resolves the category of a department. An explicitly stored
// category always wins; otherwise the category is inferred from the display
// name. "school" is checked before "centre"/"center" — a name matching both
// classifies as School. "Research Lab / Facility" is never inferred, it only
// arises from an explicit category.
func Classify(dept models.Department) string {
	if dept.Category != "" {
		return dept.Category
	}
	name := strings.ToLower(dept.Name)
	if strings.Contains(name, "school") {
		return models.CategorySchool
	}
	if strings.Contains(name, "centre") || strings.Contains(name, "center") {
		return models.CategoryCentre
	}
	return models.CategoryDepartment
}

// Bucket maps a department into its mind-map hierarchy bucket. Everything
// that is neither a school nor a centre (including research labs) lands under
// Departments.
func Bucket(dept models.Department) string {
	switch Classify(dept) {
	case models.CategorySchool:
		return BucketSchools
	case models.CategoryCentre:
		return BucketCentres
	default:
		return BucketDepartments
	}
}

// CategoryTags returns the browsing tags for a department category, always
// starting with "all".
func CategoryTags(category string) []string {
	tags := []string{"all"}
	switch category {
	case models.CategoryDepartment:
		tags = append(tags, "departments")
	case models.CategoryResearchLab:
		tags = append(tags, "researchlabs")
	case models.CategoryCentre:
		tags = append(tags, "centres")
	case models.CategorySchool:
		tags = append(tags, "schools")
	}
	return tags
}

// categoryFromQuery maps the query-string category values used by the
// frontend onto stored category values. Unknown values mean "no filter".
func categoryFromQuery(q string) string {
	switch q {
	case "departments":
		return models.CategoryDepartment
	case "schools":
		return models.CategorySchool
	case "centres":
		return models.CategoryCentre
	case "researchlabs":
		return models.CategoryResearchLab
	default:
		return ""
	}
}
