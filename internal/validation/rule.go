package validation

import (
	"regexp"
	"strings"

	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
)

var pushTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateSaveRule checks a rule save request. A rule is meaningful only
// with at least one threshold set; the storage layer does not enforce
// this, so it is rejected here.
func ValidateSaveRule(req request.SaveRuleRequest) error {
	errors := make(map[string]string)

	if err := ValidateFundCode(req.FundCode); err != nil {
		errors["fundCode"] = "fund code must be six digits"
	}

	if strings.TrimSpace(req.RuleName) == "" {
		errors["ruleName"] = "rule name is required"
	} else if len(req.RuleName) > 100 {
		errors["ruleName"] = "rule name must be 100 characters or less"
	}

	if req.RiseThreshold == nil && req.NetWorthThreshold == nil {
		errors["thresholds"] = "at least one of riseThreshold or netWorthThreshold is required"
	}

	if req.RiseThreshold != nil && *req.RiseThreshold < 0 {
		errors["riseThreshold"] = "rise threshold cannot be negative"
	}
	if req.NetWorthThreshold != nil && *req.NetWorthThreshold < 0 {
		errors["netWorthThreshold"] = "net worth threshold cannot be negative"
	}

	if req.PushTime != nil && !pushTimePattern.MatchString(*req.PushTime) {
		errors["pushTime"] = "push time must be HH:mm"
	}

	if req.RuleID != nil {
		if err := ValidateUUID(*req.RuleID); err != nil {
			errors["ruleId"] = "rule id must be a UUID"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateNotificationSetting checks a delivery target update.
func ValidateNotificationSetting(req request.NotificationSettingRequest) error {
	errors := make(map[string]string)

	if req.Channel != "dingtalk" && req.Channel != "wechat" {
		errors["channel"] = "channel must be dingtalk or wechat"
	}

	if !strings.HasPrefix(req.WebhookURL, "https://") {
		errors["webhookUrl"] = "webhook URL must be https"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
