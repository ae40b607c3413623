package validation

import (
	"formbuilder/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	deps := models.DependentOptions{
		Field:      "skills",
		Controller: "department",
		Options: map[string][]string{
			"Engineering": {"Go", "SQL"},
			"Sales":       {"CRM"},
		},
	}
	resolver := NewResolver(deps)
	static := []string{"static"}

	tests := []struct {
		name    string
		fieldID string
		values  models.SubmissionData
		want    []string
	}{
		{
			name:    "non dependent field keeps static options",
			fieldID: "department",
			values:  models.SubmissionData{"department": models.StringValue("Engineering")},
			want:    static,
		},
		{
			name:    "controller unset falls back to static",
			fieldID: "skills",
			values:  models.SubmissionData{},
			want:    static,
		},
		{
			name:    "controller empty falls back to static",
			fieldID: "skills",
			values:  models.SubmissionData{"department": models.StringValue("")},
			want:    static,
		},
		{
			name:    "unknown controller value falls back to static",
			fieldID: "skills",
			values:  models.SubmissionData{"department": models.StringValue("Legal")},
			want:    static,
		},
		{
			name:    "non string controller value falls back to static",
			fieldID: "skills",
			values:  models.SubmissionData{"department": models.NumberValue(1)},
			want:    static,
		},
		{
			name:    "known controller value selects its list",
			fieldID: "skills",
			values:  models.SubmissionData{"department": models.StringValue("Engineering")},
			want:    []string{"Go", "SQL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.fieldID, tt.values, static))
		})
	}
}

func TestResolver_NoDependencies(t *testing.T) {
	resolver := NewResolver(models.DependentOptions{})

	assert.False(t, resolver.IsDependent(""))
	assert.False(t, resolver.IsDependent("skills"))
	assert.Nil(t, resolver.Resolve("skills", nil, nil))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		want  string
	}{
		{input: "2099-01-01", valid: true, want: "2099-01-01"},
		{input: "2099-01-01T10:30:00Z", valid: true, want: "2099-01-01"},
		{input: "2099-01-01T10:30:00+02:00", valid: true, want: "2099-01-01"},
		{input: "01/31/2099", valid: true, want: "2099-01-31"},
		{input: "Jan 5, 2099", valid: true, want: "2099-01-05"},
		{input: " 2099-01-01 ", valid: true, want: "2099-01-01"},
		{input: "2099-02-30", valid: false},
		{input: "tomorrow", valid: false},
		{input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got.Format(DateLayout))
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		value models.Value
		want  float64
		valid bool
	}{
		{name: "number", value: models.NumberValue(30), want: 30, valid: true},
		{name: "integer string", value: models.StringValue("42"), want: 42, valid: true},
		{name: "decimal string", value: models.StringValue("-1.5"), want: -1.5, valid: true},
		{name: "exponent string", value: models.StringValue("2e3"), want: 2000, valid: true},
		{name: "padded string", value: models.StringValue(" 7 "), want: 7, valid: true},
		{name: "trailing garbage", value: models.StringValue("12abc"), valid: false},
		{name: "comma decimal", value: models.StringValue("1,5"), valid: false},
		{name: "hex", value: models.StringValue("0x10"), valid: false},
		{name: "nan", value: models.StringValue("NaN"), valid: false},
		{name: "overflow", value: models.StringValue("1e400"), valid: false},
		{name: "bool", value: models.BoolValue(true), valid: false},
		{name: "list", value: models.ListValue("1"), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.value)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
