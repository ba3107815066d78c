package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
	"github.com/fundwatch/fund-monitor-backend/internal/testutil"
)

func floatPtr(v float64) *float64 { return &v }

func TestRuleHandler_Save(t *testing.T) {
	t.Run("creates a rule and returns 201", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alertService, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/rule", request.SaveRuleRequest{
			FundCode:      "161725",
			RuleName:      "白酒波动",
			RiseThreshold: floatPtr(2),
		})
		req = withIdentity(req, testutil.MakeUserID())
		w := httptest.NewRecorder()

		handler.Save(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var rule model.MonitorRule
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&rule)

		if rule.ID == "" || rule.RuleName != "白酒波动" {
			t.Errorf("Expected a created rule, got %+v", rule)
		}

		testutil.AssertRowCount(t, db, "monitor_rule", 1)
	})

	t.Run("update with ruleId returns 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alertService, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		userID := testutil.MakeUserID()
		existing := testutil.NewRule(userID).Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/rule", request.SaveRuleRequest{
			FundCode:      existing.FundCode,
			RuleName:      "改名",
			RiseThreshold: floatPtr(3),
			RuleID:        &existing.ID,
		})
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.Save(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rule without any threshold returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alertService, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/rule", request.SaveRuleRequest{
			FundCode: "161725",
			RuleName: "没有阈值",
		})
		req = withIdentity(req, testutil.MakeUserID())
		w := httptest.NewRecorder()

		handler.Save(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		if !strings.Contains(w.Body.String(), "thresholds") {
			t.Errorf("Expected the thresholds field in the error body, got %s", w.Body.String())
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alertService, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		req := httptest.NewRequest(http.MethodPost, "/api/rule", strings.NewReader("{not json"))
		req = withIdentity(req, testutil.MakeUserID())
		w := httptest.NewRecorder()

		handler.Save(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRuleHandler_Delete(t *testing.T) {
	t.Run("deletes the rule and is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alertService, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		userID := testutil.MakeUserID()
		existing := testutil.NewRule(userID).Build(t, db)

		for i := 0; i < 2; i++ {
			req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/rule/"+existing.ID, map[string]string{"id": existing.ID})
			req = withIdentity(req, userID)
			w := httptest.NewRecorder()

			handler.Delete(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected 200 on pass %d, got %d: %s", i, w.Code, w.Body.String())
			}
		}

		testutil.AssertRowCount(t, db, "monitor_rule", 0)
	})
}

func TestRuleHandler_Push(t *testing.T) {
	t.Run("evaluates and returns the triggered report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mockGateway := testutil.NewMockGatewayClient().WithDetail(&model.FundDetail{
			Code:            "161725",
			Name:            "招商中证白酒",
			NetWorth:        1.234,
			ActualDayGrowth: -3.5,
		})
		alertService, cipher := testutil.NewTestAlertService(t, db, mockGateway)
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).WithFundCode("161725").WithRiseThreshold(2).Build(t, db)
		testutil.NewNotificationSetting(userID).
			WithWebhookURL(testutil.EncryptWebhook(t, cipher, "https://example.com/hook")).
			Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/rule/"+rule.ID+"/push", map[string]string{"id": rule.ID})
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.Push(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var eval service.Evaluation
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&eval)

		if !eval.Triggered || eval.Message == "" {
			t.Errorf("Expected a triggered evaluation with a message, got %+v", eval)
		}
		if len(mockGateway.Pushed) != 1 {
			t.Errorf("Expected 1 delivered push, got %d", len(mockGateway.Pushed))
		}
	})

	t.Run("snapshot outage returns 502", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mockGateway := testutil.NewMockGatewayClient().WithDetailError(errors.New("gateway timeout"))
		alertService, cipher := testutil.NewTestAlertService(t, db, mockGateway)
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).Build(t, db)
		testutil.NewNotificationSetting(userID).
			WithWebhookURL(testutil.EncryptWebhook(t, cipher, "https://example.com/hook")).
			Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/rule/"+rule.ID+"/push", map[string]string{"id": rule.ID})
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.Push(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing delivery target returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alertService, _ := testutil.NewTestAlertService(t, db, testutil.NewMockGatewayClient())
		handler := NewRuleHandler(testutil.NewTestRuleService(t, db), alertService)

		userID := testutil.MakeUserID()
		rule := testutil.NewRule(userID).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/rule/"+rule.ID+"/push", map[string]string{"id": rule.ID})
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.Push(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
