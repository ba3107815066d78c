package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
	"github.com/fundwatch/fund-monitor-backend/internal/testutil"
)

// TestEvaluate tests the pure threshold comparison.
//
// WHY: The rise threshold compares against the absolute day growth, so a
// sharp fall must trigger a "rise" rule. Getting the sign handling wrong
// would silently drop exactly the alerts users care most about.
func TestEvaluate(t *testing.T) {
	t.Run("falling day growth triggers the rise threshold", func(t *testing.T) {
		detail := &model.FundDetail{
			Code:            "161725",
			Name:            "招商中证白酒",
			NetWorth:        1.234,
			ActualDayGrowth: -3.5,
		}
		rule := model.MonitorRule{
			RuleName:      "白酒波动",
			FundCode:      "161725",
			RiseThreshold: floatPtr(2),
		}

		eval := service.Evaluate(detail, rule)

		if !eval.RiseTriggered {
			t.Error("Expected rise threshold to trigger on |−3.5| ≥ 2")
		}
		if eval.NetWorthTriggered {
			t.Error("Expected net worth threshold to stay untriggered when unset")
		}
		if !eval.Triggered {
			t.Error("Expected overall trigger")
		}
		if !strings.Contains(eval.Message, "-3.5") || !strings.Contains(eval.Message, "2") {
			t.Errorf("Expected message to carry the growth and threshold, got:\n%s", eval.Message)
		}
	})

	t.Run("net worth at the threshold triggers", func(t *testing.T) {
		detail := &model.FundDetail{Code: "161725", NetWorth: 1.5}
		rule := model.MonitorRule{RuleName: "净值线", NetWorthThreshold: floatPtr(1.5)}

		eval := service.Evaluate(detail, rule)

		if !eval.NetWorthTriggered {
			t.Error("Expected net worth 1.5 to trigger a threshold of 1.5")
		}
	})

	t.Run("nothing triggers below both thresholds", func(t *testing.T) {
		detail := &model.FundDetail{Code: "161725", NetWorth: 1.2, ActualDayGrowth: 0.8}
		rule := model.MonitorRule{
			RuleName:          "安静的规则",
			RiseThreshold:     floatPtr(2),
			NetWorthThreshold: floatPtr(1.5),
		}

		eval := service.Evaluate(detail, rule)

		if eval.Triggered {
			t.Error("Expected no trigger")
		}
		if !strings.Contains(eval.Message, "未达到") {
			t.Errorf("Expected the non-trigger wording, got:\n%s", eval.Message)
		}
	})

	t.Run("message names the rule and fund", func(t *testing.T) {
		detail := &model.FundDetail{Code: "161725", Name: "招商中证白酒", NetWorth: 2}
		rule := model.MonitorRule{RuleName: "我的规则", NetWorthThreshold: floatPtr(1)}

		eval := service.Evaluate(detail, rule)

		if !strings.Contains(eval.Message, "我的规则") || !strings.Contains(eval.Message, "161725") {
			t.Errorf("Expected the rule name and fund code in the message, got:\n%s", eval.Message)
		}
	})
}

// TestAlertService_EvaluateAndNotify tests the full evaluate-push-log flow.
//
// WHY: The push is an on-demand status report: delivery happens whether or
// not a threshold fired, a snapshot failure aborts everything, and every
// attempt lands in the push log including failed ones.
func TestAlertService_EvaluateAndNotify(t *testing.T) {
	t.Run("pushes the report and records the attempt", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mockGateway := testutil.NewMockGatewayClient().WithDetail(&model.FundDetail{
			Code:            "161725",
			Name:            "招商中证白酒",
			NetWorth:        1.234,
			ActualDayGrowth: -3.5,
		})
		svc, cipher := testutil.NewTestAlertService(t, db, mockGateway)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).WithFundCode("161725").WithRiseThreshold(2).Build(t, db)
		webhook := "https://oapi.dingtalk.com/robot/send?access_token=abc"
		testutil.NewNotificationSetting(userID).
			WithWebhookURL(testutil.EncryptWebhook(t, cipher, webhook)).
			Build(t, db)

		eval, err := svc.EvaluateAndNotify(context.Background(), userID, rule.ID)
		if err != nil {
			t.Fatalf("EvaluateAndNotify() returned unexpected error: %v", err)
		}

		if !eval.Triggered || !eval.RiseTriggered {
			t.Errorf("Expected triggered evaluation, got %+v", eval)
		}

		if len(mockGateway.Pushed) != 1 {
			t.Fatalf("Expected 1 push, got %d", len(mockGateway.Pushed))
		}
		pushed := mockGateway.Pushed[0]
		if pushed.WebhookURL != webhook {
			t.Errorf("Expected decrypted webhook %q, got %q", webhook, pushed.WebhookURL)
		}
		if !strings.Contains(pushed.Title, rule.RuleName) {
			t.Errorf("Expected title to carry the rule name, got %q", pushed.Title)
		}

		testutil.AssertRowCount(t, db, "push_log", 1)
	})

	t.Run("pushes even when nothing triggered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mockGateway := testutil.NewMockGatewayClient().WithDetail(&model.FundDetail{
			Code:            "161725",
			NetWorth:        1.0,
			ActualDayGrowth: 0.1,
		})
		svc, cipher := testutil.NewTestAlertService(t, db, mockGateway)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).WithFundCode("161725").WithRiseThreshold(5).Build(t, db)
		testutil.NewNotificationSetting(userID).
			WithWebhookURL(testutil.EncryptWebhook(t, cipher, "https://example.com/hook")).
			Build(t, db)

		eval, err := svc.EvaluateAndNotify(context.Background(), userID, rule.ID)
		if err != nil {
			t.Fatalf("EvaluateAndNotify() returned unexpected error: %v", err)
		}

		if eval.Triggered {
			t.Error("Expected no trigger")
		}
		if len(mockGateway.Pushed) != 1 {
			t.Errorf("Expected the status report to be delivered anyway, got %d pushes", len(mockGateway.Pushed))
		}
	})

	t.Run("snapshot failure aborts without pushing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mockGateway := testutil.NewMockGatewayClient().WithDetailError(errors.New("gateway timeout"))
		svc, cipher := testutil.NewTestAlertService(t, db, mockGateway)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).Build(t, db)
		testutil.NewNotificationSetting(userID).
			WithWebhookURL(testutil.EncryptWebhook(t, cipher, "https://example.com/hook")).
			Build(t, db)

		_, err := svc.EvaluateAndNotify(context.Background(), userID, rule.ID)
		if !errors.Is(err, apperrors.ErrSnapshotUnavailable) {
			t.Errorf("Expected ErrSnapshotUnavailable, got %v", err)
		}

		if len(mockGateway.Pushed) != 0 {
			t.Error("Expected no push after a snapshot failure")
		}
		testutil.AssertRowCount(t, db, "push_log", 0)
	})

	t.Run("delivery failure is returned and logged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mockGateway := testutil.NewMockGatewayClient().WithPushError(errors.New("webhook rejected"))
		svc, cipher := testutil.NewTestAlertService(t, db, mockGateway)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).Build(t, db)
		testutil.NewNotificationSetting(userID).
			WithWebhookURL(testutil.EncryptWebhook(t, cipher, "https://example.com/hook")).
			Build(t, db)

		_, err := svc.EvaluateAndNotify(context.Background(), userID, rule.ID)
		if err == nil {
			t.Fatal("Expected the delivery error to surface")
		}

		var deliveryError string
		row := db.QueryRow("SELECT delivery_error FROM push_log WHERE user_id = ?", userID)
		if err := row.Scan(&deliveryError); err != nil {
			t.Fatalf("Expected a push_log row: %v", err)
		}
		if !strings.Contains(deliveryError, "webhook rejected") {
			t.Errorf("Expected the delivery error recorded, got %q", deliveryError)
		}
	})

	t.Run("another user's rule is a not-found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())

		rule := testutil.NewRule(testutil.MakeUserID()).Build(t, db)

		_, err := svc.EvaluateAndNotify(context.Background(), testutil.MakeUserID(), rule.ID)
		if !errors.Is(err, apperrors.ErrRuleNotFound) {
			t.Errorf("Expected ErrRuleNotFound, got %v", err)
		}
	})

	t.Run("missing delivery target surfaces as not-found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).Build(t, db)

		_, err := svc.EvaluateAndNotify(context.Background(), userID, rule.ID)
		if !errors.Is(err, apperrors.ErrNotificationSettingNotFound) {
			t.Errorf("Expected ErrNotificationSettingNotFound, got %v", err)
		}
	})
}
