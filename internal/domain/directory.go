package domain

// IndustryCount pairs an industry with the number of organizations in it.
type IndustryCount struct {
	Industry      string
	Organizations int64
}

// OrganizationSummary is a directory entry ranked by rating popularity.
type OrganizationSummary struct {
	Name         string
	Slug         string
	Industry     string
	RatingCount  int64
	AverageScore float64
}
