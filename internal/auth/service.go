package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
)

// ErrAccountNotFound is returned by repositories when no account matches.
var ErrAccountNotFound = errors.New("account not found")

type RepositoryAPI interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateWithEmployee stores the account and its employee profile in one
	// transaction and returns the new employee id.
	CreateWithEmployee(ctx context.Context, account *Account, firstName, lastName string) (int64, error)
	GetEmployeeID(ctx context.Context, accountID int64) (int64, error)
}

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*SessionResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*SessionResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ResolveIdentity(ctx context.Context, accessToken string) (access.Identity, error)
}

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*SessionResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.UsernameExists(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to check username", "error", err)
		return nil, apperrors.NewInternalError("failed to register account", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to check email", "error", err)
		return nil, apperrors.NewInternalError("failed to register account", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	account := &Account{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		IsActive:     true,
	}
	employeeID, err := s.repo.CreateWithEmployee(ctx, account, dto.FirstName, dto.LastName)
	if err != nil {
		s.logger.Error("failed to create account", "error", err, "username", dto.Username)
		return nil, apperrors.NewInternalError("failed to register account", err)
	}

	s.logger.Info("account registered",
		"subject_id", account.ID,
		"employee_id", employeeID,
		"role", account.Role)

	return s.session(account, employeeID)
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*SessionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			s.logger.Error("failed to load account", "error", err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed", "username", dto.Username)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	employeeID, err := s.repo.GetEmployeeID(ctx, account.ID)
	if err != nil {
		s.logger.Error("account has no employee profile", "error", err, "subject_id", account.ID)
		return nil, apperrors.NewInternalError("failed to load employee profile", err)
	}

	return s.session(account, employeeID)
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accountID, err := claims.AccountID()
	if err != nil {
		return AuthTokens{}, err
	}
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return AuthTokens{}, apperrors.ErrInvalidToken
	}
	if !account.IsActive {
		return AuthTokens{}, apperrors.ErrUserInactive
	}

	return s.tokens(account)
}

// ResolveIdentity turns a bearer access token into the caller identity. The
// role is read from the account, not the token, so role changes apply
// immediately.
func (s *Service) ResolveIdentity(ctx context.Context, accessToken string) (access.Identity, error) {
	if accessToken == "" {
		return access.Identity{}, apperrors.ErrUnauthenticated
	}

	claims, err := s.tokenGenerator.ValidateAccessToken(accessToken)
	if err != nil {
		return access.Identity{}, err
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return access.Identity{}, err
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			s.logger.Error("failed to load account", "error", err, "subject_id", accountID)
		}
		return access.Identity{}, apperrors.ErrUnauthenticated
	}
	if !account.IsActive {
		return access.Identity{}, apperrors.ErrUserInactive
	}

	role, err := AccessRole(account.Role)
	if err != nil {
		s.logger.Error("account has unknown role", "subject_id", accountID, "role", account.Role)
		return access.Identity{}, apperrors.ErrUnauthenticated
	}

	return access.Identity{SubjectID: account.ID, Role: role}, nil
}

func (s *Service) tokens(account *Account) (AuthTokens, error) {
	userID := strconv.FormatInt(account.ID, 10)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, account.Username)
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("failed to issue token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, account.Username)
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) session(account *Account, employeeID int64) (*SessionResponse, error) {
	tokens, err := s.tokens(account)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Username:     account.Username,
		Email:        account.Email,
		Role:         account.Role,
		EmployeeID:   employeeID,
	}, nil
}
