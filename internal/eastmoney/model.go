package eastmoney

// navPayload maps the jsonpgz envelope's JSON body. Every field arrives as
// a string; numeric parsing happens in the adapter because upstream
// frequently omits or blanks fields for suspended funds.
//
//	jsonpgz({"fundcode":"161725","name":"...","jzrq":"2024-05-31",
//	         "dwjz":"1.2","gsz":"1.25","gszzl":"1.55","gztime":"2024-06-03 15:00"});
type navPayload struct {
	FundCode string `json:"fundcode"`
	Name     string `json:"name"`
	Jzrq     string `json:"jzrq"`   // settlement date of the prior-day NAV
	Dwjz     string `json:"dwjz"`   // prior-day settled NAV
	Gsz      string `json:"gsz"`    // intraday estimated NAV
	Gszzl    string `json:"gszzl"`  // estimated day growth percent
	Gztime   string `json:"gztime"` // estimate snapshot timestamp
}

// NavSnapshot is one fund's parsed live estimate. EstimatedChange is
// derived as ExpectWorth - NetWorth, never taken from upstream.
// Incomplete is set when any numeric field failed to parse; the field
// value defaults to 0 in that case.
type NavSnapshot struct {
	Code            string
	Name            string
	NetWorth        float64
	NetWorthDate    string
	ExpectWorth     float64
	ExpectGrowth    float64
	ExpectWorthDate string
	EstimatedChange float64
	Incomplete      bool
}
