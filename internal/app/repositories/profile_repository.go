package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

// IProfileRepository defines the interface for learning profile operations
type IProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// ProfileRepository handles the user_profiles table
type ProfileRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(database *db.PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: database, sb: newBuilder()}
}

// GetByUserID returns the profile of a user joined with the account's
// email and student code.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select(
		"p.id", "p.user_id", "p.name", "p.class", "p.board", "p.stream",
		"p.learning_speed", "p.learning_style", "p.study_duration",
		"p.selected_subjects", "p.subject_difficulties", "p.created_at", "p.updated_at",
		"u.student_code", "u.email").
		From("user_profiles p").
		Join("users u ON u.id = p.user_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	p := &models.Profile{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Class, &p.Board, &p.Stream,
		&p.LearningSpeed, &p.LearningStyle, &p.StudyDuration,
		&p.SelectedSubjects, &p.SubjectDifficulties, &p.CreatedAt, &p.UpdatedAt,
		&p.StudentCode, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error getting profile: %w", err)
	}
	return p, nil
}

// Upsert creates the profile or overwrites every field of the existing one.
// It reports whether a new row was created.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) (bool, error) {
	sql, args, err := r.sb.Insert("user_profiles").
		Columns("user_id", "name", "class", "board", "stream", "learning_speed",
			"learning_style", "study_duration", "selected_subjects", "subject_difficulties").
		Values(p.UserID, p.Name, p.Class, p.Board, p.Stream, p.LearningSpeed,
			p.LearningStyle, p.StudyDuration, jsonArg(p.SelectedSubjects), jsonArg(p.SubjectDifficulties)).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			class = EXCLUDED.class,
			board = EXCLUDED.board,
			stream = EXCLUDED.stream,
			learning_speed = EXCLUDED.learning_speed,
			learning_style = EXCLUDED.learning_style,
			study_duration = EXCLUDED.study_duration,
			selected_subjects = EXCLUDED.selected_subjects,
			subject_difficulties = EXCLUDED.subject_difficulties,
			updated_at = NOW()
			RETURNING id, created_at, updated_at, (xmax = 0)`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert profile SQL")
		return false, fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	var created bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &created); err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error upserting profile")
		return false, fmt.Errorf("error saving profile: %w", err)
	}
	return created, nil
}

// Exists reports whether the user has a profile
func (r *ProfileRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("user_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build profile exists query: %w", err)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error checking profile existence")
		return false, fmt.Errorf("error checking profile: %w", err)
	}
	return exists, nil
}

// jsonArg passes raw JSON to a JSONB column, mapping empty input to NULL.
func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
