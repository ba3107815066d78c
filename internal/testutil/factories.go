package testutil

import (
	"database/sql"
	"testing"

	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// LinkBuilder provides a fluent interface for creating favorite/monitor
// links directly in the database.
//
// Example usage:
//
//	link := testutil.NewLink(model.LinkFavorite, "user-1").
//	    WithFundCode("161725").
//	    Build(t, db)
type LinkBuilder struct {
	ID       string
	Table    string
	UserID   string
	FundCode string
}

// NewLink creates a LinkBuilder with sensible defaults.
func NewLink(linkType model.LinkType, userID string) *LinkBuilder {
	table := "favorite_fund"
	if linkType == model.LinkMonitor {
		table = "monitor_fund"
	}
	return &LinkBuilder{
		ID:       MakeID(),
		Table:    table,
		UserID:   userID,
		FundCode: MakeFundCode(),
	}
}

// WithFundCode sets a custom fund code.
func (b *LinkBuilder) WithFundCode(code string) *LinkBuilder {
	b.FundCode = code
	return b
}

// Build creates the link in the database and returns it.
func (b *LinkBuilder) Build(t *testing.T, db *sql.DB) model.FundLink {
	t.Helper()

	//nolint:gosec // G202: Table name comes from the fixed link type switch
	query := `INSERT INTO ` + b.Table + ` (id, user_id, fund_code) VALUES (?, ?, ?)`

	_, err := db.Exec(query, b.ID, b.UserID, b.FundCode)
	if err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}

	return model.FundLink{
		ID:       b.ID,
		UserID:   b.UserID,
		FundCode: b.FundCode,
	}
}

// CreateFavorite creates a favorite link for the user.
func CreateFavorite(t *testing.T, db *sql.DB, userID, fundCode string) model.FundLink {
	t.Helper()
	return NewLink(model.LinkFavorite, userID).WithFundCode(fundCode).Build(t, db)
}

// CreateMonitor creates a monitor link for the user.
func CreateMonitor(t *testing.T, db *sql.DB, userID, fundCode string) model.FundLink {
	t.Helper()
	return NewLink(model.LinkMonitor, userID).WithFundCode(fundCode).Build(t, db)
}

// RuleBuilder provides a fluent interface for creating monitor rules.
//
// Example usage:
//
//	rule := testutil.NewRule("user-1").
//	    WithRiseThreshold(2).
//	    WithPushTime("09:30").
//	    Build(t, db)
type RuleBuilder struct {
	ID                string
	UserID            string
	FundCode          string
	RuleName          string
	RiseThreshold     *float64
	NetWorthThreshold *float64
	PushTime          *string
}

// NewRule creates a RuleBuilder with sensible defaults. The default rule
// carries a rise threshold so it passes validation-era invariants.
func NewRule(userID string) *RuleBuilder {
	rise := 1.0
	return &RuleBuilder{
		ID:            MakeID(),
		UserID:        userID,
		FundCode:      MakeFundCode(),
		RuleName:      MakeRuleName("Test Rule"),
		RiseThreshold: &rise,
	}
}

// WithFundCode sets a custom fund code.
func (b *RuleBuilder) WithFundCode(code string) *RuleBuilder {
	b.FundCode = code
	return b
}

// WithName sets a custom rule name.
func (b *RuleBuilder) WithName(name string) *RuleBuilder {
	b.RuleName = name
	return b
}

// WithRiseThreshold sets the rise threshold.
func (b *RuleBuilder) WithRiseThreshold(threshold float64) *RuleBuilder {
	b.RiseThreshold = &threshold
	return b
}

// WithNetWorthThreshold sets the net worth threshold.
func (b *RuleBuilder) WithNetWorthThreshold(threshold float64) *RuleBuilder {
	b.NetWorthThreshold = &threshold
	return b
}

// WithoutRiseThreshold clears the rise threshold.
func (b *RuleBuilder) WithoutRiseThreshold() *RuleBuilder {
	b.RiseThreshold = nil
	return b
}

// WithPushTime sets the scheduled push time (HH:mm).
func (b *RuleBuilder) WithPushTime(hhmm string) *RuleBuilder {
	b.PushTime = &hhmm
	return b
}

// Build creates the rule in the database and returns it.
func (b *RuleBuilder) Build(t *testing.T, db *sql.DB) model.MonitorRule {
	t.Helper()

	query := `
		INSERT INTO monitor_rule (id, user_id, fund_code, rule_name, rise_threshold, net_worth_threshold, push_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.FundCode, b.RuleName, b.RiseThreshold, b.NetWorthThreshold, b.PushTime)
	if err != nil {
		t.Fatalf("Failed to create test rule: %v", err)
	}

	return model.MonitorRule{
		ID:                b.ID,
		UserID:            b.UserID,
		FundCode:          b.FundCode,
		RuleName:          b.RuleName,
		RiseThreshold:     b.RiseThreshold,
		NetWorthThreshold: b.NetWorthThreshold,
		PushTime:          b.PushTime,
	}
}

// CreateRule creates a rule for the user with default values.
func CreateRule(t *testing.T, db *sql.DB, userID, fundCode string) model.MonitorRule {
	t.Helper()
	return NewRule(userID).WithFundCode(fundCode).Build(t, db)
}

// NotificationSettingBuilder provides a fluent interface for creating
// delivery targets. WebhookURL is stored as given; pass ciphertext when the
// code under test decrypts.
type NotificationSettingBuilder struct {
	ID         string
	UserID     string
	Channel    string
	WebhookURL string
}

// NewNotificationSetting creates a NotificationSettingBuilder with defaults.
func NewNotificationSetting(userID string) *NotificationSettingBuilder {
	return &NotificationSettingBuilder{
		ID:         MakeID(),
		UserID:     userID,
		Channel:    model.ChannelDingTalk,
		WebhookURL: "https://oapi.dingtalk.com/robot/send?access_token=test",
	}
}

// WithChannel sets the channel.
func (b *NotificationSettingBuilder) WithChannel(channel string) *NotificationSettingBuilder {
	b.Channel = channel
	return b
}

// WithWebhookURL sets the stored webhook value.
func (b *NotificationSettingBuilder) WithWebhookURL(url string) *NotificationSettingBuilder {
	b.WebhookURL = url
	return b
}

// Build creates the setting in the database and returns it.
func (b *NotificationSettingBuilder) Build(t *testing.T, db *sql.DB) model.NotificationSetting {
	t.Helper()

	query := `
		INSERT INTO notification_setting (id, user_id, channel, webhook_url)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Channel, b.WebhookURL)
	if err != nil {
		t.Fatalf("Failed to create test notification setting: %v", err)
	}

	return model.NotificationSetting{
		ID:         b.ID,
		UserID:     b.UserID,
		Channel:    b.Channel,
		WebhookURL: b.WebhookURL,
	}
}

// MakeDirectoryEntry builds an in-memory directory entry for mock clients.
func MakeDirectoryEntry(code, name, fundType string) model.DirectoryEntry {
	return model.DirectoryEntry{
		Code:      code,
		ShortName: name,
		Name:      name,
		Type:      fundType,
		Pinyin:    "TEST",
	}
}
