package user

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

// ParentRepository maintains the parent to student link
type ParentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewParentRepository creates a new ParentRepository
func NewParentRepository(q db.Querier) *ParentRepository {
	return &ParentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// LinkStudent points parentID at studentID. A nil relationship keeps the
// stored one.
func (r *ParentRepository) LinkStudent(ctx context.Context, parentID, studentID int64, relationship *string) error {
	sql, args, err := r.sb.Update("users").
		Set("student_id", studentID).
		Set("relationship", squirrel.Expr("COALESCE(?, relationship)", relationship)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": parentID, "user_type": models.RoleParent}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building link student SQL")
		return fmt.Errorf("failed to build link student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("parentID", parentID).Int64("studentID", studentID).Msg("Error linking student")
		return fmt.Errorf("error linking student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	logger.Info().Int64("parentID", parentID).Int64("studentID", studentID).Msg("Parent linked to student")
	return nil
}

// GetLinkedStudentID returns the student linked to parentID, or
// ErrNoLinkedStudent.
func (r *ParentRepository) GetLinkedStudentID(ctx context.Context, parentID int64) (int64, error) {
	sql, args, err := r.sb.Select("student_id").
		From("users").
		Where(squirrel.Eq{"id": parentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build linked student query: %w", err)
	}

	var studentID *int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNoLinkedStudent
		}
		logger.Error().Err(err).Int64("parentID", parentID).Msg("Error reading linked student")
		return 0, fmt.Errorf("error reading linked student: %w", err)
	}
	if studentID == nil {
		return 0, apperrors.ErrNoLinkedStudent
	}
	return *studentID, nil
}
