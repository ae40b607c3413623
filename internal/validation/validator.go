// Package validation holds the single validation engine shared by every call
// site: live validation for renderers, submission intake and updates.
package validation

import (
	"fmt"
	"formbuilder/internal/models"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Errors maps a field identifier to the first failed check's message. Empty
// means the value map is valid.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

type Validator struct {
	form     models.FormSchema
	resolver Resolver
	patterns map[string]*regexp.Regexp
	minDates map[string]time.Time
}

// New compiles the patterns and date bounds of form once. The returned
// Validator is immutable and safe for concurrent use.
func New(form models.FormSchema, deps models.DependentOptions) (*Validator, error) {
	v := &Validator{
		form:     form,
		resolver: NewResolver(deps),
		patterns: make(map[string]*regexp.Regexp),
		minDates: make(map[string]time.Time),
	}

	for _, field := range form.Fields {
		rule := field.Validation
		if rule == nil {
			continue
		}
		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid pattern: %w", field.ID, err)
			}
			v.patterns[field.ID] = re
		}
		if rule.MinDate != "" {
			minDate, ok := ParseDate(rule.MinDate)
			if !ok {
				return nil, fmt.Errorf("field %q: invalid minDate %q", field.ID, rule.MinDate)
			}
			v.minDates[field.ID] = minDate
		}
	}

	return v, nil
}

func (v *Validator) Form() models.FormSchema { return v.form }

// EffectiveOptions is the option list a renderer should offer for fieldID given
// the values entered so far.
func (v *Validator) EffectiveOptions(fieldID string, values models.SubmissionData) []string {
	field, ok := v.form.Field(fieldID)
	if !ok {
		return nil
	}
	return v.resolver.Resolve(field.ID, values, field.Options)
}

// Validate checks every schema field against values. Keys in values that the
// schema does not declare are ignored.
func (v *Validator) Validate(values models.SubmissionData) Errors {
	errs := Errors{}
	for _, field := range v.form.Fields {
		if msg, failed := v.ValidateField(field, values); failed {
			errs[field.ID] = msg
		}
	}
	return errs
}

// ValidateField returns the first failing check's message for one field.
func (v *Validator) ValidateField(field models.FieldSchema, values models.SubmissionData) (string, bool) {
	rule := field.Validation
	if rule == nil {
		return "", false
	}

	value := values.Get(field.ID)
	if value.IsEmpty() {
		if rule.Required {
			return field.Label + " is required", true
		}
		return "", false
	}

	switch field.Type {
	case models.FieldText, models.FieldTextarea:
		return v.checkText(field, rule, value)
	case models.FieldNumber:
		return checkNumber(field, rule, value)
	case models.FieldDate:
		return v.checkDate(field, rule, value)
	case models.FieldSelect:
		return v.checkSelect(field, values, value)
	case models.FieldMultiSelect:
		return v.checkMultiSelect(field, rule, values, value)
	case models.FieldSwitch:
		if _, ok := value.AsBool(); !ok {
			return field.Label + " must be a boolean value", true
		}
	}

	return "", false
}

func (v *Validator) checkText(field models.FieldSchema, rule *models.ValidationRule, value models.Value) (string, bool) {
	s, ok := value.AsString()
	if !ok {
		return field.Label + " must be a string", true
	}

	length := utf8.RuneCountInString(s)
	if rule.MinLength != nil && length < *rule.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", field.Label, *rule.MinLength), true
	}
	if rule.MaxLength != nil && length > *rule.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", field.Label, *rule.MaxLength), true
	}

	if re, ok := v.patterns[field.ID]; ok && !re.MatchString(s) {
		return field.Label + " format is invalid", true
	}

	return "", false
}

// ParseNumber accepts numbers and decimal strings such as "42", "-1.5" or "2e3".
func ParseNumber(value models.Value) (float64, bool) {
	switch value.Kind() {
	case models.KindNumber:
		n, _ := value.AsNumber()
		return n, true
	case models.KindString:
		s, _ := value.AsString()
		s = strings.TrimSpace(s)
		if !decimalPattern.MatchString(s) {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func checkNumber(field models.FieldSchema, rule *models.ValidationRule, value models.Value) (string, bool) {
	n, ok := ParseNumber(value)
	if !ok {
		return field.Label + " must be a valid number", true
	}

	if rule.Min != nil && n < *rule.Min {
		return fmt.Sprintf("%s must be at least %s", field.Label, models.FormatNumber(*rule.Min)), true
	}
	if rule.Max != nil && n > *rule.Max {
		return fmt.Sprintf("%s must be at most %s", field.Label, models.FormatNumber(*rule.Max)), true
	}

	return "", false
}

func (v *Validator) checkDate(field models.FieldSchema, rule *models.ValidationRule, value models.Value) (string, bool) {
	s, ok := value.AsString()
	if !ok {
		return field.Label + " must be a valid date", true
	}

	date, ok := ParseDate(s)
	if !ok {
		return field.Label + " must be a valid date", true
	}

	if minDate, ok := v.minDates[field.ID]; ok && date.Before(minDate) {
		return fmt.Sprintf("%s must be on or after %s", field.Label, rule.MinDate), true
	}

	return "", false
}

func (v *Validator) checkSelect(field models.FieldSchema, values models.SubmissionData, value models.Value) (string, bool) {
	options := v.resolver.Resolve(field.ID, values, field.Options)
	s, ok := value.AsString()
	if !ok || !slices.Contains(options, s) {
		return field.Label + " must be one of the available options", true
	}
	return "", false
}

func (v *Validator) checkMultiSelect(
	field models.FieldSchema,
	rule *models.ValidationRule,
	values models.SubmissionData,
	value models.Value,
) (string, bool) {
	if !value.IsArray() {
		return field.Label + " must be an array", true
	}

	items, ok := value.AsList()
	if !ok {
		return field.Label + " contains invalid options", true
	}

	options := v.resolver.Resolve(field.ID, values, field.Options)
	for _, item := range items {
		if !slices.Contains(options, item) {
			return field.Label + " contains invalid options", true
		}
	}

	if rule.MinSelected != nil && len(items) < *rule.MinSelected {
		return fmt.Sprintf("%s must have at least %d selection(s)", field.Label, *rule.MinSelected), true
	}
	if rule.MaxSelected != nil && len(items) > *rule.MaxSelected {
		return fmt.Sprintf("%s must have at most %d selection(s)", field.Label, *rule.MaxSelected), true
	}

	return "", false
}
