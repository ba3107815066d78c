// Package scheduler drives the timed rule pushes. A cron job fires once a
// minute; rules whose push_time matches the current HH:mm are evaluated and
// delivered exactly like the on-demand push endpoint.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fundwatch/fund-monitor-backend/internal/repository"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
)

// Scheduler manages the cron task for scheduled rule pushes.
type Scheduler struct {
	cron         *cron.Cron
	ruleRepo     *repository.RuleRepository
	alertService *service.AlertService
	now          func() time.Time
}

// New creates a Scheduler over the rule store and the alert pipeline.
func New(ruleRepo *repository.RuleRepository, alertService *service.AlertService) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		ruleRepo:     ruleRepo,
		alertService: alertService,
		now:          time.Now,
	}
}

// Register adds the minutely tick. Split out from Start so a registration
// failure surfaces before the process reports ready.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc("* * * * *", s.tick); err != nil {
		return fmt.Errorf("register push task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("scheduler stopped")
}

// tick pushes every rule scheduled for the current minute. One rule's
// failure never blocks the rest; errors are logged and recorded in the
// push log by the alert service.
func (s *Scheduler) tick() {
	hhmm := s.now().Format("15:04")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	rules, err := s.ruleRepo.ListByPushTime(ctx, hhmm)
	if err != nil {
		log.Printf("scheduled push: failed to list rules for %s: %v", hhmm, err)
		return
	}
	if len(rules) == 0 {
		return
	}

	log.Printf("scheduled push: %d rule(s) due at %s", len(rules), hhmm)

	for _, rule := range rules {
		if _, err := s.alertService.EvaluateAndNotify(ctx, rule.UserID, rule.ID); err != nil {
			log.Printf("scheduled push failed for rule %s: %v", rule.ID, err)
		}
	}
}
