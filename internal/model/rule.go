package model

import "time"

// MonitorRule is one user's alert configuration for one fund. A rule is
// meaningful only when at least one threshold is set; saves without any
// threshold are rejected at validation time.
//
// RiseThreshold is a day-growth percentage compared against the absolute
// value of the fund's actual day growth. NetWorthThreshold is an absolute
// NAV floor. PushTime, when set, is the daily HH:mm at which the scheduler
// evaluates and pushes the rule.
type MonitorRule struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	FundCode          string     `json:"fundCode"`
	RuleName          string     `json:"ruleName"`
	RiseThreshold     *float64   `json:"riseThreshold,omitempty"`
	NetWorthThreshold *float64   `json:"netWorthThreshold,omitempty"`
	PushTime          *string    `json:"pushTime,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
