package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"formbuilder/internal/logger"
	"formbuilder/internal/models"
	"formbuilder/internal/validation"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// TodayToken as a minDate resolves to the load date.
const TodayToken = "today"

//go:embed onboarding.yaml
var onboardingDocument []byte

type document struct {
	models.FormSchema `yaml:",inline"`
	DependentOptions  *models.DependentOptions `yaml:"dependentOptions"`
}

// Provider exposes the form schema and dependent options. Both are read-only
// once loaded.
type Provider struct {
	form models.FormSchema
	deps models.DependentOptions
}

func Default(now time.Time) (*Provider, error) {
	return Load(onboardingDocument, now)
}

func LoadFile(path string, now time.Time) (*Provider, error) {
	log := logger.New("schema").Function("LoadFile")

	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, log.Err("failed to read form schema", err, "path", path)
	}

	provider, err := Load(doc, now)
	if err != nil {
		return nil, log.Err("failed to load form schema", err, "path", path)
	}

	return provider, nil
}

func Load(doc []byte, now time.Time) (*Provider, error) {
	var d document
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("parse form schema: %w", err)
	}

	today := now.UTC().Format(validation.DateLayout)
	for i := range d.Fields {
		rule := d.Fields[i].Validation
		if rule != nil && rule.MinDate == TodayToken {
			rule.MinDate = today
		}
	}

	var deps models.DependentOptions
	if d.DependentOptions != nil {
		deps = *d.DependentOptions
	}

	if err := check(d.FormSchema, deps); err != nil {
		return nil, err
	}

	return &Provider{form: d.FormSchema, deps: deps}, nil
}

func check(form models.FormSchema, deps models.DependentOptions) error {
	if len(form.Fields) == 0 {
		return errors.New("form schema has no fields")
	}

	seen := make(map[string]bool, len(form.Fields))
	for i, field := range form.Fields {
		if field.ID == "" {
			return fmt.Errorf("field[%d]: id is required", i)
		}
		if seen[field.ID] {
			return fmt.Errorf("field[%d]: duplicate id %q", i, field.ID)
		}
		seen[field.ID] = true

		if field.Label == "" {
			return fmt.Errorf("field %q: label is required", field.ID)
		}
		if _, err := models.ParseFieldType(string(field.Type)); err != nil {
			return fmt.Errorf("field %q: %w", field.ID, err)
		}

		rule := field.Validation
		if rule == nil {
			continue
		}
		if rule.Pattern != "" {
			if _, err := regexp.Compile(rule.Pattern); err != nil {
				return fmt.Errorf("field %q: invalid pattern: %w", field.ID, err)
			}
		}
		if rule.MinDate != "" {
			if _, ok := validation.ParseDate(rule.MinDate); !ok {
				return fmt.Errorf("field %q: invalid minDate %q", field.ID, rule.MinDate)
			}
		}
	}

	if deps.Field == "" && deps.Controller == "" {
		return nil
	}

	dependent, ok := form.Field(deps.Field)
	if !ok {
		return fmt.Errorf("dependent field %q is not in the form", deps.Field)
	}
	if dependent.Type != models.FieldSelect && dependent.Type != models.FieldMultiSelect {
		return fmt.Errorf("dependent field %q must be a select or multi-select", deps.Field)
	}
	if _, ok := form.Field(deps.Controller); !ok {
		return fmt.Errorf("controller field %q is not in the form", deps.Controller)
	}
	if deps.Field == deps.Controller {
		return fmt.Errorf("field %q cannot control itself", deps.Field)
	}

	return nil
}

func (p *Provider) Form() models.FormSchema {
	return p.form
}

func (p *Provider) DependentOptions() models.DependentOptions {
	return p.deps
}

func (p *Provider) Response() models.FormSchemaResponse {
	skills := p.deps.Options
	if skills == nil {
		skills = map[string][]string{}
	}
	return models.FormSchemaResponse{FormSchema: p.form, DepartmentSkills: skills}
}
