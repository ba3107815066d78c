package model

// DirectoryEntry is one row of the upstream fund directory: the full
// code/name/type listing published by the fund source.
type DirectoryEntry struct {
	Code      string `json:"code"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Pinyin    string `json:"pinyin"`
}

// Description renders the "{name} - {type}" string the allow/deny
// substring filters are matched against.
func (e DirectoryEntry) Description() string {
	return e.Name + " - " + e.Type
}

// FundRecord is one fund's point-in-time snapshot as served to clients.
// It is assembled fresh per request from upstream data and never persisted.
// Numeric fields default to 0 when upstream omits or malforms them;
// DataIncomplete is set in that case so the UI can tell a true zero from a
// missing value.
type FundRecord struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	ShortName       string  `json:"shortName"`
	Type            string  `json:"type"`
	NetWorth        float64 `json:"netWorth"`
	ExpectWorth     float64 `json:"expectWorth"`
	TotalNetWorth   float64 `json:"totalNetWorth"`
	ExpectGrowth    float64 `json:"expectGrowth"`
	ActualDayGrowth float64 `json:"actualDayGrowth"`
	EstimatedChange float64 `json:"estimatedChange"`
	NetWorthDate    string  `json:"netWorthDate"`
	ExpectWorthDate string  `json:"expectWorthDate"`
	TotalCount      int     `json:"totalCount"`
	DataIncomplete  bool    `json:"dataIncomplete,omitempty"`
}

// AnnotatedFundRecord is a FundRecord plus the requesting user's
// favorite/monitor flags. The flags are an annotation produced by the
// reconciliation step, not part of the canonical record.
type AnnotatedFundRecord struct {
	FundRecord
	IsFavorite   bool `json:"isFavorite"`
	IsMonitoring bool `json:"isMonitoring"`
}

// FundPage is one filtered, paginated, NAV-enriched page of funds.
type FundPage struct {
	Data  []AnnotatedFundRecord `json:"data"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// FundDetail is the richer per-fund view served by the gateway, used for
// rule evaluation and the fund detail endpoint.
type FundDetail struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	NetWorth        float64 `json:"netWorth"`
	ExpectWorth     float64 `json:"expectWorth"`
	TotalNetWorth   float64 `json:"totalNetWorth"`
	ExpectGrowth    float64 `json:"expectGrowth"`
	ActualDayGrowth float64 `json:"actualDayGrowth"`
	NetWorthDate    string  `json:"netWorthDate"`
}
