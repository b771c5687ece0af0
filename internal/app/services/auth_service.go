package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/auth"
	"github.com/yigit/acetrack/internal/pkg/helpers"
	"github.com/yigit/acetrack/internal/pkg/validation"
)

// maxStudentCodeAttempts bounds the retries on a student code collision
const maxStudentCodeAttempts = 5

// AuthService handles authentication operations
type AuthService struct {
	userRepo    repositories.IUserRepository
	profileRepo repositories.IProfileRepository
	jwtService  *auth.JWTService
	hasher      auth.PasswordHasher
	codes       auth.CodeGenerator
	logger      zerolog.Logger
	clock
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	profileRepo repositories.IProfileRepository,
	jwtService *auth.JWTService,
	hasher auth.PasswordHasher,
	codes auth.CodeGenerator,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		hasher:      hasher,
		codes:       codes,
		logger:      logger,
		clock:       systemClock(),
	}
}

// validateRegistration checks the request and returns the normalized email
// and role.
func (s *AuthService) validateRegistration(req *dto.RegisterRequest) (string, models.RoleType, error) {
	email := helpers.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return "", "", fmt.Errorf("%w: Missing required fields", apperrors.ErrValidationFailed)
	}
	if !validation.IsEmail(email) {
		return "", "", fmt.Errorf("%w: Invalid email format", apperrors.ErrValidationFailed)
	}
	if len(req.Password) < validation.PasswordMinLength {
		return "", "", fmt.Errorf("%w: Password must be at least %d characters", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}

	role := models.RoleStudent
	if strings.TrimSpace(req.UserType) != "" {
		var ok bool
		if role, ok = models.ParseRole(req.UserType); !ok {
			return "", "", fmt.Errorf("%w: Invalid user type", apperrors.ErrValidationFailed)
		}
	}
	return email, role, nil
}

// Register creates an account. Students get a student code; parents are
// linked to the student named by code or email when it resolves.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email, role, err := s.validateRegistration(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		UserType:     role,
	}

	rule := role.Rule()
	if rule.LinksStudent {
		user.StudentID, err = s.resolveStudent(ctx, req.StudentCode, req.StudentEmail)
		if err != nil {
			return nil, err
		}
	}
	if rule.HasRelationship && req.Relationship != nil {
		user.Relationship = helpers.OptionalString(*req.Relationship)
	}

	if rule.IssuesStudentCode {
		err = s.createWithStudentCode(ctx, user)
	} else {
		err = s.userRepo.CreateWithStatistics(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("role", string(user.UserType)).
		Bool("linked", user.StudentID != nil).
		Msg("User registered")

	return s.authResponse(user, false)
}

// createWithStudentCode draws a fresh code for every attempt that hits the
// unique constraint.
func (s *AuthService) createWithStudentCode(ctx context.Context, user *models.User) error {
	for attempt := 1; ; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return err
		}
		user.StudentCode = &code

		err = s.userRepo.CreateWithStatistics(ctx, user)
		if !errors.Is(err, apperrors.ErrStudentCodeTaken) || attempt == maxStudentCodeAttempts {
			return err
		}
		s.logger.Warn().Int("attempt", attempt).Msg("Student code collision, retrying")
	}
}

// resolveStudent looks the student up by code when one is given and by
// email otherwise. An unresolved key leaves the parent unlinked.
func (s *AuthService) resolveStudent(ctx context.Context, code, email string) (*int64, error) {
	code = helpers.NormalizeStudentCode(code)
	email = helpers.NormalizeEmail(email)

	var (
		id  int64
		err error
	)
	switch {
	case code != "":
		id, err = s.userRepo.FindStudentIDByCode(ctx, code)
	case email != "":
		id, err = s.userRepo.FindStudentIDByEmail(ctx, email)
	default:
		return nil, nil
	}
	if err == nil {
		return &id, nil
	}
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}

	s.logger.Info().Str("studentCode", code).Msg("Student not resolved, parent created unlinked")
	return nil, nil
}

// Login checks credentials and, when given, the expected role.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := helpers.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: Missing email or password", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if wanted := strings.TrimSpace(req.UserType); wanted != "" && !strings.EqualFold(wanted, string(user.UserType)) {
		s.logger.Info().Int64("userID", user.ID).Str("requested", wanted).Msg("Login with mismatched user type")
		return nil, apperrors.ErrRoleMismatch
	}

	if !s.hasher.Check(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	hasProfile, err := s.profileRepo.Exists(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.authResponse(user, hasProfile)
}

// VerifyToken decodes a token
func (s *AuthService) VerifyToken(token string) (*dto.TokenClaimsResponse, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: No token provided", apperrors.ErrValidationFailed)
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	resp := &dto.TokenClaimsResponse{
		UserID:   claims.UserID,
		Email:    claims.Email,
		UserType: string(claims.UserType),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp, nil
}

// Me returns the account of the caller
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) authResponse(user *models.User, hasProfile bool) (*dto.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		UserType:     string(user.UserType),
		StudentID:    user.StudentID,
		StudentCode:  user.StudentCode,
		Relationship: user.Relationship,
		HasProfile:   hasProfile,
		Token:        token,
	}, nil
}
