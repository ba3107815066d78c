package model

import "time"

// Notification channels supported by the messaging gateway.
const (
	ChannelDingTalk = "dingtalk"
	ChannelWeChat   = "wechat"
)

// NotificationSetting is a user's push delivery target. The webhook URL is
// stored fernet-encrypted at rest; this struct always carries the decrypted
// value.
type NotificationSetting struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Channel    string    `json:"channel"`
	WebhookURL string    `json:"webhookUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PushLog records one delivery attempt: which rule fired, whether any
// threshold was crossed, the rendered message, and the delivery error if
// the gateway rejected it.
type PushLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	RuleID        string    `json:"ruleId"`
	FundCode      string    `json:"fundCode"`
	Triggered     bool      `json:"triggered"`
	Message       string    `json:"message"`
	DeliveryError string    `json:"deliveryError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
