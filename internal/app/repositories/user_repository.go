package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/repositories/user"
	"github.com/yigit/acetrack/internal/db"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	// Registration and authentication
	CreateWithStatistics(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	// Student lookup
	FindStudentIDByCode(ctx context.Context, code string) (int64, error)
	FindStudentIDByEmail(ctx context.Context, email string) (int64, error)

	// Parent link
	LinkStudent(ctx context.Context, parentID, studentID int64, relationship *string) error
	GetLinkedStudentID(ctx context.Context, parentID int64) (int64, error)
}

// UserRepository combines all user-related repositories
type UserRepository struct {
	db      *db.PostgresDB
	sb      squirrel.StatementBuilderType
	common  *user.Repository
	student *user.StudentRepository
	parent  *user.ParentRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{
		db:      database,
		sb:      newBuilder(),
		common:  user.NewRepository(database.Pool),
		student: user.NewStudentRepository(database.Pool),
		parent:  user.NewParentRepository(database.Pool),
	}
}

// CreateWithStatistics inserts the user together with its empty statistics
// row. Either both rows exist afterwards or neither does.
func (r *UserRepository) CreateWithStatistics(ctx context.Context, u *models.User) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.common.CreateUser(ctx, tx, u); err != nil {
			return err
		}
		return insertStatistics(ctx, tx, r.sb, u.ID)
	})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.common.GetUserByEmail(ctx, email)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.common.GetUserByID(ctx, id)
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.common.EmailExists(ctx, email)
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.common.UpdateLastLogin(ctx, userID, at)
}

// FindStudentIDByCode resolves a student code
func (r *UserRepository) FindStudentIDByCode(ctx context.Context, code string) (int64, error) {
	return r.student.FindIDByCode(ctx, code)
}

// FindStudentIDByEmail resolves a student email
func (r *UserRepository) FindStudentIDByEmail(ctx context.Context, email string) (int64, error) {
	return r.student.FindIDByEmail(ctx, email)
}

// LinkStudent links a parent account to a student account
func (r *UserRepository) LinkStudent(ctx context.Context, parentID, studentID int64, relationship *string) error {
	return r.parent.LinkStudent(ctx, parentID, studentID, relationship)
}

// GetLinkedStudentID returns the student linked to a parent
func (r *UserRepository) GetLinkedStudentID(ctx context.Context, parentID int64) (int64, error) {
	return r.parent.GetLinkedStudentID(ctx, parentID)
}
