package validation

import "formbuilder/internal/models"

// Resolver yields the effective option list of a field, substituting the
// dependent list keyed by the controller field's value when one applies.
type Resolver struct {
	deps models.DependentOptions
}

func NewResolver(deps models.DependentOptions) Resolver {
	return Resolver{deps: deps}
}

func (r Resolver) IsDependent(fieldID string) bool {
	return r.deps.Field != "" && r.deps.Field == fieldID
}

// Resolve never fails: a missing or unknown controller value falls back to static.
func (r Resolver) Resolve(fieldID string, values models.SubmissionData, static []string) []string {
	if !r.IsDependent(fieldID) {
		return static
	}

	controller, ok := values.Get(r.deps.Controller).AsString()
	if !ok || controller == "" {
		return static
	}

	options, ok := r.deps.Options[controller]
	if !ok {
		return static
	}

	return options
}
