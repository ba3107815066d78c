package model

import "time"

// LinkType distinguishes the two user-fund relationship tables.
type LinkType string

const (
	LinkFavorite LinkType = "favorite"
	LinkMonitor  LinkType = "monitor"
)

// FundLink is a persisted association between a user and a fund, either a
// favorite or a monitor. At most one link of each type exists per
// (user, fund) pair, enforced by a composite UNIQUE constraint.
type FundLink struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FundCode  string    `json:"fundCode"`
	CreatedAt time.Time `json:"createdAt"`
}
