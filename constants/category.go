package constants

import "strings"

// EntityCategory is the high-level rollup of the registry's detailed entity types.
type EntityCategory string

const (
	CategoryIndividual     EntityCategory = "Individual / Sole Trader"
	CategoryPartnership    EntityCategory = "Partnership"
	CategoryTrust          EntityCategory = "Trust"
	CategoryCompany        EntityCategory = "Company"
	CategorySuperannuation EntityCategory = "Superannuation Fund"
	CategoryOther          EntityCategory = "Other"
)

var allCategories = []EntityCategory{
	CategoryIndividual,
	CategoryPartnership,
	CategoryTrust,
	CategoryCompany,
	CategorySuperannuation,
	CategoryOther,
}

func CategoryNames() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Categorize maps a detailed entity type ("Australian Private Company",
// "Discretionary Investment Trust", ...) onto its high-level category.
// Keyword precedence: individual, partnership, trust, company, super fund.
func Categorize(entityType string) EntityCategory {
	et := strings.ToLower(strings.TrimSpace(entityType))
	if et == "" {
		return CategoryOther
	}
	switch {
	case strings.Contains(et, "individual") || strings.Contains(et, "sole trader"):
		return CategoryIndividual
	case strings.Contains(et, "partnership"):
		return CategoryPartnership
	case strings.Contains(et, "trust"):
		return CategoryTrust
	case strings.Contains(et, "company") || strings.Contains(et, "pty") || strings.Contains(et, "ltd"):
		return CategoryCompany
	case strings.Contains(et, "super") || strings.Contains(et, "fund"):
		return CategorySuperannuation
	}
	return CategoryOther
}
