package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gooxalert/internal/model"
	"gooxalert/internal/repository"
)

var (
	ErrSignalementNotFound = errors.New("signalement not found")
	ErrInvalidCategory     = errors.New("category is not one of the accepted values")
)

// SignalementService manages a user's own civic issue reports. Every
// operation is scoped to the calling user.
type SignalementService interface {
	Create(ctx context.Context, userID int, req model.CreateSignalementRequest) (*model.Signalement, error)
	List(ctx context.Context, userID int) ([]model.Signalement, error)
	Get(ctx context.Context, id int64, userID int) (*model.Signalement, error)
	Update(ctx context.Context, id int64, userID int, req model.UpdateSignalementRequest) (*model.Signalement, error)
	Delete(ctx context.Context, id int64, userID int) error
}

type signalementService struct {
	repo repository.SignalementRepository
}

// NewSignalementService creates a new SignalementService
func NewSignalementService(repo repository.SignalementRepository) SignalementService {
	return &signalementService{repo: repo}
}

// Create stores a new report for the caller. Status always starts en_attente
// no matter what the client sent.
func (s *signalementService) Create(ctx context.Context, userID int, req model.CreateSignalementRequest) (*model.Signalement, error) {
	if !model.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	signalement := &model.Signalement{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		Category:    req.Category,
		Status:      model.StatusEnAttente,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, signalement); err != nil {
		return nil, fmt.Errorf("failed to create signalement in repo: %w", err)
	}
	return signalement, nil
}

func (s *signalementService) List(ctx context.Context, userID int) ([]model.Signalement, error) {
	signalements, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signalements: %w", err)
	}
	return signalements, nil
}

func (s *signalementService) Get(ctx context.Context, id int64, userID int) (*model.Signalement, error) {
	signalement, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find signalement: %w", err)
	}
	if signalement == nil {
		return nil, ErrSignalementNotFound
	}
	return signalement, nil
}

// Update applies partial changes to the caller's own report. Status, owner
// and creation time never change here.
func (s *signalementService) Update(ctx context.Context, id int64, userID int, req model.UpdateSignalementRequest) (*model.Signalement, error) {
	signalement, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find signalement for update: %w", err)
	}
	if signalement == nil {
		return nil, ErrSignalementNotFound
	}

	if req.Title != nil {
		signalement.Title = *req.Title
	}
	if req.Description != nil {
		signalement.Description = *req.Description
	}
	if req.ImageURL != nil {
		signalement.ImageURL = req.ImageURL
	}
	if req.Location != nil {
		signalement.Location = *req.Location
	}
	if req.Category != nil {
		if !model.ValidCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		signalement.Category = *req.Category
	}

	if err := s.repo.Update(ctx, signalement); err != nil {
		return nil, fmt.Errorf("failed to update signalement: %w", err)
	}
	return signalement, nil
}

func (s *signalementService) Delete(ctx context.Context, id int64, userID int) error {
	signalement, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to find signalement for deletion: %w", err)
	}
	if signalement == nil {
		return ErrSignalementNotFound
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete signalement: %w", err)
	}
	return nil
}
