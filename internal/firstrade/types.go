package firstrade

// Credentials holds the login material for one brokerage user. The zero
// value of the optional fields disables the corresponding MFA method.
// Credentials are immutable for the lifetime of a Client.
type Credentials struct {
	Username string
	Password string

	// PIN is the account PIN, submitted automatically when the service
	// demands a second factor.
	PIN string

	// Email and Phone select a one-time-code delivery channel. The code
	// arrives out-of-band and must be passed to CompleteLogin.
	Email string
	Phone string

	// MFASecret is the shared secret for time-based one-time codes. When
	// set, codes are computed locally and no user interaction is needed.
	MFASecret string
}

// loginResponse is the JSON body returned by the auth and verify endpoints.
// MFA is a pointer because its absence (not its falseness) signals that no
// second factor is required.
type loginResponse struct {
	Error           string      `json:"error"`
	MFA             *bool       `json:"mfa,omitempty"`
	TToken          string      `json:"t_token"`
	FTAT            string      `json:"ftat"`
	SID             string      `json:"sid"`
	VerificationSID string      `json:"verificationSid"`
	OTPOptions      []OTPOption `json:"otp"`
}

// OTPOption is one code-delivery channel offered by the service during the
// second-factor step.
type OTPOption struct {
	Channel       string `json:"channel"`
	RecipientID   string `json:"recipientId"`
	RecipientMask string `json:"recipientMask"`
}

// AccountList is the response of the account list endpoint.
type AccountList struct {
	Error string        `json:"error"`
	Items []AccountItem `json:"items"`
}

// AccountItem is one brokerage account with its total value.
type AccountItem struct {
	Account    string  `json:"account"`
	Type       string  `json:"type"`
	TotalValue float64 `json:"total_value"`
}

// AccountNumbers returns the account numbers in listing order.
func (l *AccountList) AccountNumbers() []string {
	numbers := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		numbers = append(numbers, item.Account)
	}
	return numbers
}

// Quote holds the quote data for a single symbol.
type Quote struct {
	Error         string  `json:"error"`
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"company_name"`
	Exchange      string  `json:"exchange"`
	Bid           float64 `json:"bid"`
	Ask           float64 `json:"ask"`
	Last          float64 `json:"last"`
	BidSize       int64   `json:"bid_size"`
	AskSize       int64   `json:"ask_size"`
	LastSize      int64   `json:"last_size"`
	Change        float64 `json:"change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	Volume        string  `json:"vol"`
	QuoteTime     string  `json:"quote_time"`
	LastTradeTime string  `json:"last_trade_time"`
	IsFractional  bool    `json:"is_fractional"`
	HasOption     bool    `json:"has_option"`
	IsETF         bool    `json:"is_etf"`
	Realtime      string  `json:"realtime"`
}

// OptionDates is the response of the option expiration dates endpoint.
type OptionDates struct {
	Error string   `json:"error"`
	Dates []string `json:"items"`
}
