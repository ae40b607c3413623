package services

import (
	"formbuilder/internal/models"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeParams applies the listing defaults: page below 1 becomes 1, a zero
// limit becomes DefaultLimit, any other limit is clamped to [1, MaxLimit], an
// empty sortBy means createdAt and any sortOrder other than asc means desc.
func NormalizeParams(params models.ListParams) models.ListParams {
	if params.Page < 1 {
		params.Page = models.DefaultPage
	}

	switch {
	case params.Limit == 0:
		params.Limit = models.DefaultLimit
	case params.Limit < 1:
		params.Limit = 1
	case params.Limit > models.MaxLimit:
		params.Limit = models.MaxLimit
	}

	if params.SortBy == "" {
		params.SortBy = models.SortByCreatedAt
	}

	if params.SortOrder == models.SortAsc {
		params.SortOrder = models.SortAsc
	} else {
		params.SortOrder = models.SortDesc
	}

	params.Search = strings.TrimSpace(params.Search)
	return params
}

// Filter keeps submissions whose id, canonical timestamp or any data value
// contains search, ignoring case. An empty search keeps everything.
func Filter(submissions []models.Submission, search string) []models.Submission {
	search = strings.TrimSpace(search)
	if search == "" {
		return submissions
	}

	m := matcher{fold: cases.Fold()}
	m.needle = m.fold.String(search)

	out := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if m.matches(submission) {
			out = append(out, submission)
		}
	}
	return out
}

// matcher holds a Caser, which is stateful and must not be shared between
// goroutines.
type matcher struct {
	fold   cases.Caser
	needle string
}

func (m matcher) matches(submission models.Submission) bool {
	if m.contains(submission.ID) {
		return true
	}
	if m.contains(models.FormatTimestamp(submission.CreatedAt)) {
		return true
	}
	for _, value := range submission.Data {
		if m.contains(value.String()) {
			return true
		}
	}
	return false
}

func (m matcher) contains(haystack string) bool {
	return strings.Contains(m.fold.String(haystack), m.needle)
}

// Sort orders submissions in place. Only createdAt is a recognized key; the
// sort is stable so equal timestamps keep insertion order.
func Sort(submissions []models.Submission, sortBy, sortOrder string) {
	if sortBy != models.SortByCreatedAt {
		return
	}

	slices.SortStableFunc(submissions, func(a, b models.Submission) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if sortOrder != models.SortAsc {
			c = -c
		}
		return c
	})
}

// Paginate slices one page. A page past the end is empty, not an error. Page
// below 1 means the first page and a limit below 1 means DefaultLimit.
func Paginate(submissions []models.Submission, page, limit int) models.SubmissionPage {
	page = max(page, models.DefaultPage)
	if limit < 1 {
		limit = models.DefaultLimit
	}

	total := len(submissions)
	result := models.SubmissionPage{
		Submissions: []models.Submission{},
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  (total + limit - 1) / limit,
	}

	start := (page - 1) * limit
	if start >= total {
		return result
	}
	end := min(start+limit, total)

	result.Submissions = submissions[start:end]
	return result
}

// Query runs filter, sort and paginate over a store snapshot. The snapshot is
// not modified.
func Query(submissions []models.Submission, params models.ListParams) models.SubmissionPage {
	params = NormalizeParams(params)

	filtered := Filter(submissions, params.Search)
	if len(filtered) == len(submissions) {
		filtered = slices.Clone(submissions)
	}

	Sort(filtered, params.SortBy, params.SortOrder)
	return Paginate(filtered, params.Page, params.Limit)
}
