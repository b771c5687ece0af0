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

// StudentRepository resolves student accounts by their public keys
type StudentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(q db.Querier) *StudentRepository {
	return &StudentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) findID(ctx context.Context, where squirrel.Eq) (int64, error) {
	where["user_type"] = models.RoleStudent

	sql, args, err := r.sb.Select("id").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find student SQL")
		return 0, fmt.Errorf("failed to build find student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error executing find student query")
		return 0, fmt.Errorf("error finding student: %w", err)
	}
	return id, nil
}

// FindIDByCode returns the id of the student with the normalized code
func (r *StudentRepository) FindIDByCode(ctx context.Context, code string) (int64, error) {
	return r.findID(ctx, squirrel.Eq{"student_code": code})
}

// FindIDByEmail returns the id of the student with the normalized email
func (r *StudentRepository) FindIDByEmail(ctx context.Context, email string) (int64, error) {
	return r.findID(ctx, squirrel.Eq{"email": email})
}
