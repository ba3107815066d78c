package request

// SaveRuleRequest creates a rule when RuleID is nil and updates the
// identified row otherwise.
type SaveRuleRequest struct {
	FundCode          string   `json:"fundCode"`
	RuleName          string   `json:"ruleName"`
	RiseThreshold     *float64 `json:"riseThreshold"`
	NetWorthThreshold *float64 `json:"netWorthThreshold"`
	PushTime          *string  `json:"pushTime"`
	RuleID            *string  `json:"ruleId"`
}

// NotificationSettingRequest updates a user's push delivery target.
type NotificationSettingRequest struct {
	Channel    string `json:"channel"`
	WebhookURL string `json:"webhookUrl"`
}
