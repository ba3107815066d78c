package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/gateway"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
)

// Evaluation is the outcome of comparing a live snapshot against a rule.
// A message is rendered whether or not any threshold was crossed: the
// push is an on-demand status report, not a silent watcher, so a
// non-trigger changes the message body, never suppresses delivery.
type Evaluation struct {
	Triggered         bool   `json:"triggered"`
	NetWorthTriggered bool   `json:"netWorthTriggered"`
	RiseTriggered     bool   `json:"riseTriggered"`
	Message           string `json:"message"`
}

// AlertService evaluates monitor rules against live fund data and
// delivers the report through the messaging gateway.
type AlertService struct {
	gatewayClient    gateway.Client
	ruleRepo         *repository.RuleRepository
	notificationRepo *repository.NotificationRepository
	cipher           *SecretCipher
}

// NewAlertService creates a new AlertService with the provided dependencies.
func NewAlertService(
	gatewayClient gateway.Client,
	ruleRepo *repository.RuleRepository,
	notificationRepo *repository.NotificationRepository,
	cipher *SecretCipher,
) *AlertService {
	return &AlertService{
		gatewayClient:    gatewayClient,
		ruleRepo:         ruleRepo,
		notificationRepo: notificationRepo,
		cipher:           cipher,
	}
}

// EvaluateAndNotify fetches the rule's fund live, evaluates the
// thresholds, pushes the rendered report to the user's webhook, and
// records the attempt in the push log.
//
// A snapshot fetch failure aborts the whole evaluation; there is no
// fallback to stale data. A delivery failure is recorded in the log and
// returned, but the evaluation result is still filled in.
func (s *AlertService) EvaluateAndNotify(ctx context.Context, userID, ruleID string) (Evaluation, error) {
	if userID == "" {
		return Evaluation{}, apperrors.ErrNotAuthenticated
	}

	rule, err := s.ruleRepo.Get(ctx, ruleID)
	if err != nil {
		return Evaluation{}, err
	}
	if rule.UserID != userID {
		return Evaluation{}, apperrors.ErrRuleNotFound
	}

	detail, err := s.gatewayClient.FundDetail(ctx, rule.FundCode)
	if err != nil {
		return Evaluation{}, fmt.Errorf("%w: %v", apperrors.ErrSnapshotUnavailable, err)
	}

	eval := Evaluate(detail, rule)

	setting, err := s.notificationRepo.GetSetting(ctx, userID)
	if err != nil {
		return eval, err
	}
	webhook, err := s.cipher.Decrypt(setting.WebhookURL)
	if err != nil {
		return eval, fmt.Errorf("failed to decrypt webhook: %w", err)
	}

	pushErr := s.gatewayClient.Push(ctx, webhook, "基金监控提醒 "+rule.RuleName, eval.Message)

	logEntry := model.PushLog{
		UserID:    userID,
		RuleID:    rule.ID,
		FundCode:  rule.FundCode,
		Triggered: eval.Triggered,
		Message:   eval.Message,
	}
	if pushErr != nil {
		logEntry.DeliveryError = pushErr.Error()
	}
	if err := s.notificationRepo.InsertPushLog(ctx, logEntry); err != nil {
		log.Printf("failed to record push log for rule %s: %v", rule.ID, err)
	}

	return eval, pushErr
}

// Evaluate compares one live snapshot against one rule. Stateless.
//
// A threshold that is not configured never triggers. The rise threshold
// compares against the absolute day growth, so a -3.5% day triggers a
// rise threshold of 2.
func Evaluate(detail *model.FundDetail, rule model.MonitorRule) Evaluation {
	eval := Evaluation{}

	if rule.NetWorthThreshold != nil {
		eval.NetWorthTriggered = decimal.NewFromFloat(detail.NetWorth).
			GreaterThanOrEqual(decimal.NewFromFloat(*rule.NetWorthThreshold))
	}
	if rule.RiseThreshold != nil {
		eval.RiseTriggered = decimal.NewFromFloat(math.Abs(detail.ActualDayGrowth)).
			GreaterThanOrEqual(decimal.NewFromFloat(*rule.RiseThreshold))
	}
	eval.Triggered = eval.NetWorthTriggered || eval.RiseTriggered
	eval.Message = renderMessage(detail, rule, eval)

	return eval
}

// renderMessage formats the markdown report pushed to DingTalk/WeChat.
func renderMessage(detail *model.FundDetail, rule model.MonitorRule, eval Evaluation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("### %s (%s)\n\n", detail.Name, detail.Code))
	b.WriteString(fmt.Sprintf("- 单位净值: %s (%s)\n", formatValue(detail.NetWorth), detail.NetWorthDate))
	b.WriteString(fmt.Sprintf("- 估算净值: %s\n", formatValue(detail.ExpectWorth)))
	b.WriteString(fmt.Sprintf("- 当日涨跌: %s%%\n", formatValue(detail.ActualDayGrowth)))

	b.WriteString("\n**规则 " + rule.RuleName + "**\n")
	if rule.NetWorthThreshold != nil {
		state := "未触发"
		if eval.NetWorthTriggered {
			state = "已触发"
		}
		b.WriteString(fmt.Sprintf("- 净值阈值 %s: %s\n", formatValue(*rule.NetWorthThreshold), state))
	}
	if rule.RiseThreshold != nil {
		state := "未触发"
		if eval.RiseTriggered {
			state = "已触发"
		}
		b.WriteString(fmt.Sprintf("- 涨跌幅阈值 %s%%: %s\n", formatValue(*rule.RiseThreshold), state))
	}

	if eval.Triggered {
		b.WriteString("\n⚠️ 已达到提醒条件\n")
	} else {
		b.WriteString("\n当前未达到提醒条件\n")
	}

	return b.String()
}

// formatValue renders a float without trailing zero noise ("2" not
// "2.00", "-3.5" not "-3.50").
func formatValue(v float64) string {
	return decimal.NewFromFloat(v).String()
}
