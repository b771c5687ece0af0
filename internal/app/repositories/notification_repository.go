package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

// INotificationRepository defines the interface for notification operations
type INotificationRepository interface {
	ListForUser(ctx context.Context, userID int64, limit uint64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	Create(ctx context.Context, n *models.Notification) (int64, error)
}

// NotificationRepository handles the notifications table
type NotificationRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(database *db.PostgresDB) *NotificationRepository {
	return &NotificationRepository{db: database, sb: newBuilder()}
}

func visibleTo(userID int64) squirrel.Or {
	return squirrel.Or{squirrel.Eq{"user_id": nil}, squirrel.Eq{"user_id": userID}}
}

// ListForUser returns global notifications and the user's own, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64, limit uint64) ([]models.Notification, error) {
	sql, args, err := r.sb.Select("id", "user_id", "title", "message", "type", "is_read", "created_at").
		From("notifications").
		Where(visibleTo(userID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying notifications")
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	items := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return items, nil
}

// MarkRead flags a notification visible to userID as read
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		Where(visibleTo(userID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("notificationID", id).Msg("Error marking notification read")
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	return insertNotification(ctx, r.db.Pool, r.sb, n)
}

func insertNotification(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, n *models.Notification) (int64, error) {
	sql, args, err := sb.Insert("notifications").
		Columns("user_id", "title", "message", "type").
		Values(n.UserID, n.Title, n.Message, n.Type).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating notification")
		return 0, fmt.Errorf("error creating notification: %w", err)
	}
	return n.ID, nil
}
