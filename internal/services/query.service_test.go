package services

import (
	"fmt"
	"formbuilder/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixture(n int) []models.Submission {
	out := make([]models.Submission, n)
	for i := range out {
		out[i] = models.Submission{
			ID:        fmt.Sprintf("id-%02d", i),
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
			Data: models.SubmissionData{
				"fullName": models.StringValue(fmt.Sprintf("Person %d", i)),
			},
		}
	}
	return out
}

func ids(submissions []models.Submission) []string {
	out := make([]string, len(submissions))
	for i, s := range submissions {
		out[i] = s.ID
	}
	return out
}

func TestNormalizeParams(t *testing.T) {
	tests := []struct {
		name  string
		input models.ListParams
		want  models.ListParams
	}{
		{
			name:  "zero values take defaults",
			input: models.ListParams{},
			want:  models.ListParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"},
		},
		{
			name:  "negative page and limit",
			input: models.ListParams{Page: -3, Limit: -5},
			want:  models.ListParams{Page: 1, Limit: 1, SortBy: "createdAt", SortOrder: "desc"},
		},
		{
			name:  "limit above max is clamped",
			input: models.ListParams{Page: 2, Limit: 500, SortOrder: "asc"},
			want:  models.ListParams{Page: 2, Limit: 100, SortBy: "createdAt", SortOrder: "asc"},
		},
		{
			name:  "unknown order means desc",
			input: models.ListParams{Page: 1, Limit: 5, SortBy: "name", SortOrder: "sideways"},
			want:  models.ListParams{Page: 1, Limit: 5, SortBy: "name", SortOrder: "desc"},
		},
		{
			name:  "search is trimmed",
			input: models.ListParams{Search: "  lee  "},
			want:  models.ListParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc", Search: "lee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeParams(tt.input))
		})
	}
}

func TestQuery_PaginationBoundary(t *testing.T) {
	tests := []struct {
		stored int
		limit  int
		pages  int
	}{
		{stored: 0, limit: 10, pages: 0},
		{stored: 1, limit: 10, pages: 1},
		{stored: 10, limit: 10, pages: 1},
		{stored: 11, limit: 10, pages: 2},
		{stored: 25, limit: 7, pages: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.stored, tt.limit), func(t *testing.T) {
			submissions := fixture(tt.stored)

			page := Query(submissions, models.ListParams{Page: 1, Limit: tt.limit})
			assert.Equal(t, tt.stored, page.Total)
			assert.Equal(t, tt.pages, page.TotalPages)

			beyond := Query(submissions, models.ListParams{Page: tt.pages + 1, Limit: tt.limit})
			assert.NotNil(t, beyond.Submissions)
			assert.Empty(t, beyond.Submissions)
			assert.Equal(t, tt.stored, beyond.Total)
		})
	}
}

func TestQuery_PagesCoverEverythingOnce(t *testing.T) {
	submissions := fixture(23)

	seen := map[string]int{}
	for page := 1; page <= 3; page++ {
		result := Query(submissions, models.ListParams{Page: page, Limit: 10})
		for _, s := range result.Submissions {
			seen[s.ID]++
		}
	}

	assert.Len(t, seen, 23)
	for id, count := range seen {
		assert.Equal(t, 1, count, id)
	}
}

func TestQuery_SortOrder(t *testing.T) {
	submissions := fixture(3)

	desc := Query(submissions, models.ListParams{})
	assert.Equal(t, []string{"id-02", "id-01", "id-00"}, ids(desc.Submissions))

	asc := Query(submissions, models.ListParams{SortOrder: "asc"})
	assert.Equal(t, []string{"id-00", "id-01", "id-02"}, ids(asc.Submissions))

	unknown := Query(submissions, models.ListParams{SortBy: "fullName", SortOrder: "asc"})
	assert.Equal(t, []string{"id-00", "id-01", "id-02"}, ids(unknown.Submissions), "insertion order")

	assert.Equal(t, "id-00", submissions[0].ID, "snapshot untouched")
}

func TestQuery_StableOnEqualTimestamps(t *testing.T) {
	submissions := fixture(4)
	for i := range submissions {
		submissions[i].CreatedAt = baseTime
	}

	desc := Query(submissions, models.ListParams{})
	assert.Equal(t, []string{"id-00", "id-01", "id-02", "id-03"}, ids(desc.Submissions))
}

func TestQuery_Search(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:        "a1",
			CreatedAt: baseTime,
			Data:      models.SubmissionData{"fullName": models.StringValue("Ann Lee")},
		},
		{
			ID:        "b2",
			CreatedAt: baseTime.Add(time.Hour),
			Data:      models.SubmissionData{"fullName": models.StringValue("Bo Kim")},
		},
		{
			ID:        "c3",
			CreatedAt: baseTime.Add(2 * time.Hour),
			Data: models.SubmissionData{
				"skills": models.ListValue("Go", "Kubernetes"),
				"age":    models.NumberValue(42.5),
				"remote": models.BoolValue(true),
			},
		},
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "case insensitive name", search: "lee", want: []string{"a1"}},
		{name: "upper case needle", search: "KIM", want: []string{"b2"}},
		{name: "id", search: "B2", want: []string{"b2"}},
		{name: "timestamp", search: "2026-03-01T10:00", want: []string{"b2"}},
		{name: "list joined", search: "go,kube", want: []string{"c3"}},
		{name: "number", search: "42.5", want: []string{"c3"}},
		{name: "bool", search: "true", want: []string{"c3"}},
		{name: "whitespace disables search", search: "   ", want: []string{"c3", "b2", "a1"}},
		{name: "no match", search: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Query(submissions, models.ListParams{Search: tt.search})
			assert.Equal(t, tt.want, ids(page.Submissions))
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestPaginate_LastPartialPage(t *testing.T) {
	page := Paginate(fixture(12), 2, 5)
	require.Len(t, page.Submissions, 5)
	assert.Equal(t, "id-05", page.Submissions[0].ID)

	last := Paginate(fixture(12), 3, 5)
	assert.Equal(t, []string{"id-10", "id-11"}, ids(last.Submissions))
	assert.Equal(t, 3, last.TotalPages)
}

func TestPaginate_ClampsInputs(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "zero page and limit", page: 0, limit: 0, wantPage: 1, wantLimit: 10},
		{name: "negative page", page: -2, limit: 5, wantPage: 1, wantLimit: 5},
		{name: "negative limit", page: 1, limit: -1, wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page models.SubmissionPage
			require.NotPanics(t, func() { page = Paginate(fixture(3), tt.page, tt.limit) })

			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, 1, page.TotalPages)
			assert.Equal(t, []string{"id-00", "id-01", "id-02"}, ids(page.Submissions))
		})
	}
}
