package firstrade

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api3x.firstrade.com"

// anonymousAccessToken is the public token the mobile/web frontend presents
// before a session exists. It identifies the client application, not a user.
const anonymousAccessToken = "Vp9fvtk6SSJ8BuIO5P6UxY1tIJhmRjnl"

// API paths. The host serves session endpoints under /sess and
// account-scoped endpoints under /private.
const (
	pathLogin       = "/sess/auth"
	pathVerifyPIN   = "/sess/verify_pin"
	pathRequestCode = "/sess/request_code"

	pathUserInfo     = "/private/userinfo"
	pathAccountList  = "/private/acctlist"
	pathBalances     = "/private/balances"
	pathPositions    = "/private/positions"
	pathHistory      = "/private/history"
	pathOrderList    = "/private/orderlist"
	pathOrderBar     = "/private/orderbar"
	pathOptionOrder  = "/private/optionorder"
	pathCancelOrder  = "/private/cancelorder"
	pathQuote        = "/private/quote"
	pathOptionDates  = "/private/optiondates"
	pathOptionChain  = "/private/optionchain"
	pathOptionGreeks = "/private/optiongreeks"
)

// defaultHeaders returns the static header set every request carries. The
// upstream service rejects requests that do not look like its own frontend.
func defaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "*/*",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36",
	}
}
