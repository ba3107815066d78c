package gateway

import "github.com/fundwatch/fund-monitor-backend/internal/model"

// tokenResponse maps the OAuth2 token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// detailPayload maps the gateway's fund detail response.
type detailPayload struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	NetWorth        float64 `json:"netWorth"`
	ExpectWorth     float64 `json:"expectWorth"`
	TotalNetWorth   float64 `json:"totalNetWorth"`
	ExpectGrowth    float64 `json:"expectGrowth"`
	ActualDayGrowth float64 `json:"dayGrowth"`
	NetWorthDate    string  `json:"netWorthDate"`
}

func (p detailPayload) toModel() *model.FundDetail {
	return &model.FundDetail{
		Code:            p.Code,
		Name:            p.Name,
		Type:            p.Type,
		NetWorth:        p.NetWorth,
		ExpectWorth:     p.ExpectWorth,
		TotalNetWorth:   p.TotalNetWorth,
		ExpectGrowth:    p.ExpectGrowth,
		ActualDayGrowth: p.ActualDayGrowth,
		NetWorthDate:    p.NetWorthDate,
	}
}

// pushRequest is the delivery payload handed to the gateway.
type pushRequest struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	WebhookURL string `json:"webhookUrl"`
}
