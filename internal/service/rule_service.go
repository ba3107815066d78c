package service

import (
	"context"

	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
)

// RuleService handles monitor rule CRUD.
type RuleService struct {
	ruleRepo *repository.RuleRepository
}

// NewRuleService creates a new RuleService with the provided repository.
func NewRuleService(ruleRepo *repository.RuleRepository) *RuleService {
	return &RuleService{ruleRepo: ruleRepo}
}

// Save creates a rule when req.RuleID is nil and updates the identified
// row otherwise. Updates are scoped to the owner; updating another user's
// rule is a not-found.
func (s *RuleService) Save(ctx context.Context, userID string, req request.SaveRuleRequest) (model.MonitorRule, error) {
	if userID == "" {
		return model.MonitorRule{}, apperrors.ErrNotAuthenticated
	}

	rule := model.MonitorRule{
		UserID:            userID,
		FundCode:          req.FundCode,
		RuleName:          req.RuleName,
		RiseThreshold:     req.RiseThreshold,
		NetWorthThreshold: req.NetWorthThreshold,
		PushTime:          req.PushTime,
	}

	if req.RuleID == nil {
		return s.ruleRepo.Insert(ctx, rule)
	}

	rule.ID = *req.RuleID
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return model.MonitorRule{}, err
	}

	return s.ruleRepo.Get(ctx, rule.ID)
}

// Get retrieves one rule, scoped to its owner.
func (s *RuleService) Get(ctx context.Context, userID, ruleID string) (model.MonitorRule, error) {
	rule, err := s.ruleRepo.Get(ctx, ruleID)
	if err != nil {
		return model.MonitorRule{}, err
	}
	if rule.UserID != userID {
		return model.MonitorRule{}, apperrors.ErrRuleNotFound
	}
	return rule, nil
}

// List returns the user's rules, optionally narrowed to one fund code.
func (s *RuleService) List(ctx context.Context, userID, fundCode string) ([]model.MonitorRule, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	return s.ruleRepo.ListByUser(ctx, userID, fundCode)
}

// Delete removes a rule. Deleting a rule that does not exist (or belongs
// to someone else) is a no-op success, mirroring link removal.
func (s *RuleService) Delete(ctx context.Context, userID, ruleID string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}

	return s.ruleRepo.Delete(ctx, userID, ruleID)
}
