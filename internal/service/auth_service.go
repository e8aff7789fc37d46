package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gooxalert/internal/model"
	"gooxalert/internal/phone"
	"gooxalert/internal/repository"
	"gooxalert/internal/utils"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPhone           = phone.ErrInvalid
	ErrPhoneAlreadyRegistered = errors.New("a user with this telephone already exists")
	ErrUserNotFound           = errors.New("no account is associated with this telephone")
	ErrInvalidCredentials     = errors.New("incorrect telephone or password")
	ErrWrongOldPassword       = errors.New("the old password is incorrect")
	ErrSamePassword           = errors.New("the new password cannot be the same as the old one")
	ErrInvalidResetCode       = errors.New("the reset code is invalid or has expired")
)

// AuthService provides registration, authentication and the credential
// lifecycle (change, reset).
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, telephone, password string) (*model.User, []model.Signalement, *utils.TokenPair, error)
	Tokens(ctx context.Context, telephone, password string) (*utils.TokenPair, error)
	Refresh(refreshToken string) (string, error)
	ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) (*utils.TokenPair, error)
	RequestPasswordReset(ctx context.Context, telephone string) (string, error)
	ResetPassword(ctx context.Context, telephone, code, newPassword string) (*utils.TokenPair, error)
}

type authService struct {
	userRepo        repository.UserRepository
	signalementRepo repository.SignalementRepository
	jwtUtil         *utils.JWTUtil
	codes           CodeStore
	sms             SmsSender
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, signalementRepo repository.SignalementRepository,
	jwtUtil *utils.JWTUtil, codes CodeStore, sms SmsSender) AuthService {
	return &authService{
		userRepo:        userRepo,
		signalementRepo: signalementRepo,
		jwtUtil:         jwtUtil,
		codes:           codes,
		sms:             sms,
	}
}

// Register creates a new account with the "user" role and the default avatar.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	telephone, err := phone.Normalize(req.Telephone)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByPhone(ctx, telephone)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyRegistered
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	terms := true
	if req.Terms != nil {
		terms = *req.Terms
	}

	// Role is forced server-side; the only exception is the bootstrap admin
	// promoted via INITIAL_ADMIN_PHONE.
	userRole := model.RoleUser
	isStaff, isSuperuser := false, false
	if initialAdminPhone := os.Getenv("INITIAL_ADMIN_PHONE"); initialAdminPhone != "" {
		if canonical, adminErr := phone.Normalize(initialAdminPhone); adminErr == nil && canonical == telephone {
			userRole = model.RoleAdmin
			isStaff, isSuperuser = true, true
			log.Info().Str("telephone", telephone).Msg("registering bootstrap admin via INITIAL_ADMIN_PHONE")
		}
	}

	user := &model.User{
		FullName:     req.FullName,
		Telephone:    telephone,
		Commune:      req.Commune,
		ImageURL:     model.DefaultAvatarURL,
		Role:         userRole,
		Terms:        terms,
		IsActive:     true,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Racing duplicate registrations land here: the pre-check passed for
		// both, the unique constraint let only one through.
		if errors.Is(err, repository.ErrPhoneTaken) {
			return nil, ErrPhoneAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns the profile, the user's signalements
// newest-first, and a fresh token pair.
func (s *authService) Login(ctx context.Context, telephone, password string) (*model.User, []model.Signalement, *utils.TokenPair, error) {
	user, pair, err := s.authenticate(ctx, telephone, password)
	if err != nil {
		return nil, nil, nil, err
	}

	signalements, err := s.signalementRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load user signalements: %w", err)
	}

	return user, signalements, pair, nil
}

// Tokens implements the bare token-obtain endpoint: credentials in, pair out.
func (s *authService) Tokens(ctx context.Context, telephone, password string) (*utils.TokenPair, error) {
	_, pair, err := s.authenticate(ctx, telephone, password)
	return pair, err
}

// Refresh exchanges a refresh token for a new access token.
func (s *authService) Refresh(refreshToken string) (string, error) {
	return s.jwtUtil.RefreshAccessToken(refreshToken)
}

func (s *authService) authenticate(ctx context.Context, telephone, password string) (*model.User, *utils.TokenPair, error) {
	// Login uses the lenient normalization on purpose; see internal/phone.
	canonical, err := phone.NormalizeLenient(telephone)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, canonical)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.jwtUtil.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return user, pair, nil
}

// ChangePassword verifies the old password, rejects a new password identical
// to the current one, stores the new hash and reissues tokens.
func (s *authService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) (*utils.TokenPair, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return nil, ErrWrongOldPassword
	}
	if utils.CheckPasswordHash(newPassword, user.PasswordHash) {
		return nil, ErrSamePassword
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return nil, fmt.Errorf("failed to store new password: %w", err)
	}

	pair, err := s.jwtUtil.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return pair, nil
}

// RequestPasswordReset issues a short-lived code for the telephone and hands
// it to the SMS collaborator. Returns the canonical telephone for the client
// to carry into the confirmation step.
func (s *authService) RequestPasswordReset(ctx context.Context, telephone string) (string, error) {
	canonical, err := phone.Normalize(telephone)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByPhone(ctx, canonical)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	code, err := GenerateResetCode()
	if err != nil {
		return "", err
	}
	if err := s.codes.Save(ctx, canonical, code); err != nil {
		return "", err
	}
	if err := s.sms.SendResetCode(ctx, canonical, code); err != nil {
		return "", fmt.Errorf("failed to dispatch reset code: %w", err)
	}

	return canonical, nil
}

// ResetPassword consumes the code issued by RequestPasswordReset, overwrites
// the password hash and issues a fresh token pair.
func (s *authService) ResetPassword(ctx context.Context, telephone, code, newPassword string) (*utils.TokenPair, error) {
	canonical, err := phone.Normalize(telephone)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	ok, err := s.codes.Consume(ctx, canonical, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidResetCode
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return nil, fmt.Errorf("failed to store new password: %w", err)
	}

	pair, err := s.jwtUtil.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return pair, nil
}
