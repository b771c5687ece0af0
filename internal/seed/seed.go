// Package seed inserts reference data the application expects to exist.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/helpers"
)

// DefaultCurriculum is the starter curriculum of a fresh installation.
var DefaultCurriculum = []models.CurriculumTopic{
	{Subject: "Physics", Chapter: "Kinematics", Topic: "Motion in a straight line", EstimatedHours: 4},
	{Subject: "Physics", Chapter: "Kinematics", Topic: "Projectile motion", EstimatedHours: 3},
	{Subject: "Physics", Chapter: "Laws of Motion", Topic: "Newton's laws", EstimatedHours: 5},
	{Subject: "Chemistry", Chapter: "Atomic Structure", Topic: "Bohr's model", EstimatedHours: 3},
	{Subject: "Chemistry", Chapter: "Chemical Bonding", Topic: "Hybridisation", EstimatedHours: 4},
	{Subject: "Mathematics", Chapter: "Calculus", Topic: "Limits and continuity", EstimatedHours: 5},
	{Subject: "Mathematics", Chapter: "Calculus", Topic: "Differentiation", EstimatedHours: 6},
	{Subject: "Biology", Chapter: "Cell Biology", Topic: "Cell organelles", EstimatedHours: 3, Resources: helpers.OptionalString("NCERT Class 11, chapter 8")},
}

// CreateDefaultData inserts the default curriculum topics that are missing.
func CreateDefaultData(ctx context.Context, curriculum repositories.ICurriculumRepository, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default curriculum...")

	added, err := curriculum.EnsureTopics(ctx, DefaultCurriculum)
	if err != nil {
		return fmt.Errorf("failed to seed curriculum: %w", err)
	}

	lgr.Info().Int("added", added).Int("total", len(DefaultCurriculum)).Msg("Default curriculum ready")
	return nil
}
