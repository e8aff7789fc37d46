package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"gooxalert/internal/model"
	"gooxalert/internal/phone"
	"gooxalert/internal/repository"
	"gooxalert/internal/utils"
)

var (
	ErrInvalidRole     = errors.New("role must be one of: user, admin, moderator")
	ErrNoImageProvided = errors.New("no image was provided")
)

// MaxImageSize caps profile picture uploads.
const MaxImageSize = 5 * 1024 * 1024 // 5MB

// UserService covers profile management and the admin user operations.
type UserService interface {
	Profile(ctx context.Context, userID int) (*model.User, error)
	UpdatePersonalInfo(ctx context.Context, userID int, req model.UpdatePersonalInfoRequest) (*model.User, *utils.TokenPair, error)
	UpdateProfilePicture(ctx context.Context, userID int, file *multipart.FileHeader) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, targetUserID int, role string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	uploader ImageUploader
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, uploader ImageUploader) UserService {
	return &userService{userRepo: userRepo, jwtUtil: jwtUtil, uploader: uploader}
}

func (s *userService) Profile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdatePersonalInfo changes the display name and/or login telephone. A
// changed telephone is normalized strictly and must not belong to anyone else.
// Tokens are reissued because the login identifier may have changed.
func (s *userService) UpdatePersonalInfo(ctx context.Context, userID int, req model.UpdatePersonalInfoRequest) (*model.User, *utils.TokenPair, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Telephone != nil {
		canonical, err := phone.Normalize(*req.Telephone)
		if err != nil {
			return nil, nil, err
		}
		inUse, err := s.userRepo.PhoneInUseByOther(ctx, canonical, user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check telephone usage: %w", err)
		}
		if inUse {
			return nil, nil, ErrPhoneAlreadyRegistered
		}
		user.Telephone = canonical
	}

	if err := s.userRepo.UpdatePersonalInfo(ctx, user); err != nil {
		if errors.Is(err, repository.ErrPhoneTaken) {
			return nil, nil, ErrPhoneAlreadyRegistered
		}
		return nil, nil, fmt.Errorf("failed to update personal info: %w", err)
	}

	pair, err := s.jwtUtil.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return user, pair, nil
}

// UpdateProfilePicture uploads the image to the hosting collaborator and
// stores only the returned URL.
func (s *userService) UpdateProfilePicture(ctx context.Context, userID int, file *multipart.FileHeader) (*model.User, error) {
	if file == nil {
		return nil, ErrNoImageProvided
	}
	if file.Size > MaxImageSize {
		return nil, fmt.Errorf("image exceeds the %d byte limit", MaxImageSize)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}

	imageURL, err := s.uploader.Upload(ctx, data)
	if err != nil {
		return nil, err
	}

	user.ImageURL = imageURL
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store profile picture URL: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role. Values outside the fixed set are rejected
// and leave the stored role unchanged. Admin implies the staff and superuser
// flags.
func (s *userService) UpdateRole(ctx context.Context, targetUserID int, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Role = role
	isAdmin := role == model.RoleAdmin
	user.IsStaff = isAdmin
	user.IsSuperuser = isAdmin

	if err := s.userRepo.UpdateRole(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return user, nil
}
