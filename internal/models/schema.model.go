package models

import "fmt"

type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi-select"
	FieldDate        FieldType = "date"
	FieldTextarea    FieldType = "textarea"
	FieldSwitch      FieldType = "switch"
)

func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(s)
	switch t {
	case FieldText, FieldNumber, FieldSelect, FieldMultiSelect, FieldDate, FieldTextarea, FieldSwitch:
		return t, nil
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

// ValidationRule holds the optional constraints of a field. Members that do not
// apply to the field's type are ignored by the validator.
type ValidationRule struct {
	Required    bool     `json:"required,omitempty"    yaml:"required"`
	MinLength   *int     `json:"minLength,omitempty"   yaml:"minLength"`
	MaxLength   *int     `json:"maxLength,omitempty"   yaml:"maxLength"`
	Pattern     string   `json:"pattern,omitempty"     yaml:"pattern"`
	Min         *float64 `json:"min,omitempty"         yaml:"min"`
	Max         *float64 `json:"max,omitempty"         yaml:"max"`
	MinDate     string   `json:"minDate,omitempty"     yaml:"minDate"`
	MinSelected *int     `json:"minSelected,omitempty" yaml:"minSelected"`
	MaxSelected *int     `json:"maxSelected,omitempty" yaml:"maxSelected"`
}

type FieldSchema struct {
	ID          string          `json:"id"                    yaml:"id"`
	Label       string          `json:"label"                 yaml:"label"`
	Type        FieldType       `json:"type"                  yaml:"type"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder"`
	Options     []string        `json:"options,omitempty"     yaml:"options"`
	Validation  *ValidationRule `json:"validation,omitempty"  yaml:"validation"`
}

type FormSchema struct {
	Title       string        `json:"title"       yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Fields      []FieldSchema `json:"fields"      yaml:"fields"`
}

func (f FormSchema) Field(id string) (FieldSchema, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// DependentOptions maps the value of a controlling field to the option list of
// a dependent field, e.g. department -> skills.
type DependentOptions struct {
	Field      string              `json:"field"      yaml:"field"`
	Controller string              `json:"controller" yaml:"controller"`
	Options    map[string][]string `json:"options"    yaml:"options"`
}

type FormSchemaResponse struct {
	FormSchema
	DepartmentSkills map[string][]string `json:"departmentSkills"`
}
