// Package apperrors defines the sentinel errors shared across the
// repository, service, and HTTP layers.
package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrRuleNotFound indicates that a monitor rule with the given ID does not exist.
	ErrRuleNotFound = errors.New("monitor rule not found")

	// ErrLinkNotFound indicates that a favorite/monitor link does not exist
	// for the given user and fund code.
	ErrLinkNotFound = errors.New("fund link not found")

	// ErrFundNotFound indicates that no fund exists for the given code.
	ErrFundNotFound = errors.New("fund not found")

	// ErrNotificationSettingNotFound indicates the user has not configured
	// a notification webhook yet.
	ErrNotificationSettingNotFound = errors.New("notification setting not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrDuplicateLink indicates that a favorite/monitor link already exists
	// for the (user, fund) pair. Callers surface this as an informational
	// "already in list" result, not a failure.
	ErrDuplicateLink = errors.New("fund already linked")

	// ErrNotAuthenticated indicates a mutating operation was invoked without
	// a resolved user identity.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRuleWithoutThreshold indicates a rule save carried neither a rise
	// threshold nor a net-worth threshold.
	ErrRuleWithoutThreshold = errors.New("rule requires at least one threshold")

	// ErrInvalidFundCode indicates a fund code that is not a six-digit string.
	ErrInvalidFundCode = errors.New("invalid fund code")

	// ErrInvalidPushTime indicates a push time that is not HH:mm.
	ErrInvalidPushTime = errors.New("invalid push time format")
)

// Upstream errors represent failures of the external fund source or the
// messaging gateway.
var (
	// ErrDirectoryUnavailable indicates the fund directory could not be
	// fetched or parsed. Distinct from "zero funds match the filters":
	// callers translate this into a 503, never an empty page.
	ErrDirectoryUnavailable = errors.New("fund directory unavailable")

	// ErrUpstreamParse indicates an upstream payload did not match the
	// expected JS-literal or JSONP envelope.
	ErrUpstreamParse = errors.New("unexpected upstream payload format")

	// ErrSnapshotUnavailable indicates the live fund snapshot required for a
	// rule evaluation could not be fetched. Evaluation aborts; there is no
	// fallback to stale data.
	ErrSnapshotUnavailable = errors.New("live fund snapshot unavailable")

	// ErrGatewayAuth indicates the OAuth2 token request was rejected.
	ErrGatewayAuth = errors.New("gateway authentication failed")

	// ErrPushFailed indicates the notification gateway rejected a delivery.
	ErrPushFailed = errors.New("notification delivery failed")
)
