package service

import (
	"context"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
)

// LinkService handles favorite/monitor link operations. Every operation
// requires a resolved user identity; mutating calls without one fail with
// ErrNotAuthenticated rather than silently doing nothing.
type LinkService struct {
	favoriteRepo *repository.LinkRepository
	monitorRepo  *repository.LinkRepository
}

// NewLinkService creates a new LinkService with the provided repositories.
func NewLinkService(favoriteRepo, monitorRepo *repository.LinkRepository) *LinkService {
	return &LinkService{
		favoriteRepo: favoriteRepo,
		monitorRepo:  monitorRepo,
	}
}

func (s *LinkService) repo(linkType model.LinkType) *repository.LinkRepository {
	if linkType == model.LinkMonitor {
		return s.monitorRepo
	}
	return s.favoriteRepo
}

// Add links a fund to the user. A duplicate add surfaces
// apperrors.ErrDuplicateLink, which callers present as an informational
// "already in list" result.
func (s *LinkService) Add(ctx context.Context, linkType model.LinkType, userID, fundCode string) (model.FundLink, error) {
	if userID == "" {
		return model.FundLink{}, apperrors.ErrNotAuthenticated
	}

	return s.repo(linkType).Insert(ctx, userID, fundCode)
}

// Remove unlinks a fund from the user. Removing a link that does not
// exist is a no-op success.
func (s *LinkService) Remove(ctx context.Context, linkType model.LinkType, userID, fundCode string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}

	return s.repo(linkType).Delete(ctx, userID, fundCode)
}

// List returns all of the user's links of the given type, newest first.
func (s *LinkService) List(ctx context.Context, linkType model.LinkType, userID string) ([]model.FundLink, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	return s.repo(linkType).List(ctx, userID)
}

// Exists reports whether the user has linked the fund.
func (s *LinkService) Exists(ctx context.Context, linkType model.LinkType, userID, fundCode string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	return s.repo(linkType).Exists(ctx, userID, fundCode)
}
