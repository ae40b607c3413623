package models

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	SortByCreatedAt = "createdAt"
	SortAsc         = "asc"
	SortDesc        = "desc"
)

type ListParams struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
	Search    string `query:"search"`
}

type SubmissionPage struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	TotalPages  int          `json:"totalPages"`
}
