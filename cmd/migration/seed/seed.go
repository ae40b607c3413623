package seed

import (
	"context"
	"formbuilder/internal/logger"
	"formbuilder/internal/repositories"
	"formbuilder/internal/validation"
	"time"

	. "formbuilder/internal/models"
)

func demoSubmissions() []SubmissionData {
	return []SubmissionData{
		{
			"firstName":   StringValue("Ada"),
			"lastName":    StringValue("Lovelace"),
			"email":       StringValue("ada.lovelace@example.com"),
			"phone":       StringValue("+1 (555) 010-2000"),
			"age":         NumberValue(36),
			"department":  StringValue("Engineering"),
			"skills":      ListValue("Python", "SQL"),
			"startDate":   StringValue("2099-01-05"),
			"bio":         StringValue("Writes the first programs."),
			"acceptTerms": BoolValue(true),
		},
		{
			"firstName":   StringValue("Grace"),
			"lastName":    StringValue("Hopper"),
			"email":       StringValue("grace.hopper@example.com"),
			"age":         NumberValue(45),
			"department":  StringValue("Operations"),
			"skills":      ListValue("Process Improvement"),
			"startDate":   StringValue("2099-02-01"),
			"acceptTerms": BoolValue(true),
		},
		{
			"firstName":   StringValue("Bob"),
			"lastName":    StringValue("Parsons"),
			"email":       StringValue("bob.parsons@example.com"),
			"age":         NumberValue(29),
			"department":  StringValue("Sales"),
			"skills":      ListValue("CRM", "Negotiation"),
			"startDate":   StringValue("2099-03-15"),
			"acceptTerms": BoolValue(true),
		},
	}
}

// Seed inserts demo submissions into an empty store. Each one goes through the
// validator first; invalid entries are logged and skipped.
func Seed(
	ctx context.Context,
	repo repositories.SubmissionRepository,
	validator *validation.Validator,
	log logger.Logger,
) (int, error) {
	log = log.Function("seed")

	existing, err := repo.ListAll(ctx)
	if err != nil {
		return 0, log.Err("failed to list submissions", err)
	}
	if len(existing) > 0 {
		log.Info("Submissions already exist, skipping seed", "count", len(existing))
		return 0, nil
	}

	log.Info("Seeding development data")

	seeded := 0
	for i, data := range demoSubmissions() {
		if errs := validator.Validate(data); !errs.Valid() {
			log.Warn("skipping invalid seed submission", "index", i, "errors", errs)
			continue
		}

		submission := NewSubmission(data)
		// Keep createdAt distinct so sorted listings are deterministic.
		submission.CreatedAt = submission.CreatedAt.Add(time.Duration(i) * time.Millisecond)
		if err := repo.Insert(ctx, &submission); err != nil {
			log.Er("failed to create submission", err, "index", i)
			continue
		}
		seeded++
	}

	log.Info("Seed complete", "seeded", seeded)
	return seeded, nil
}
