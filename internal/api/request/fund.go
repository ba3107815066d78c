package request

// ListFundsParams carries the parsed query parameters of the fund list
// endpoint. Allow/deny are substring filters over the fund's
// "{name} - {type}" description.
type ListFundsParams struct {
	Page  int
	Limit int
	Allow []string
	Deny  []string
}
