package firstrade

import "errors"

// Login handshake errors. Every failed handshake surfaces exactly one of
// these, wrapped with the server-reported detail where one exists. A client
// whose login failed must be discarded; there is no in-place retry.
var (
	// ErrAuthRequestFailed indicates a transport or HTTP status failure
	// during the login handshake.
	ErrAuthRequestFailed = errors.New("authentication request failed")

	// ErrAuthResponseFailed indicates the service accepted the request but
	// reported an application-level error in the response body.
	ErrAuthResponseFailed = errors.New("authentication rejected by service")

	// ErrInvalidResponseFormat indicates a response body that could not be
	// parsed as JSON where JSON was expected.
	ErrInvalidResponseFormat = errors.New("invalid response format")

	// ErrMFAMethodMissing indicates the service demanded a second factor but
	// no PIN, shared secret, email, or phone is configured.
	ErrMFAMethodMissing = errors.New("second factor required but no MFA method configured")

	// ErrNoOTPChannelAvailable indicates an email or phone is configured but
	// the service offered no matching delivery channel.
	ErrNoOTPChannelAvailable = errors.New("no matching OTP delivery channel offered")

	// ErrInvalidState is returned when an operation is called from the wrong
	// handshake state, e.g. CompleteLogin without a pending second factor.
	ErrInvalidState = errors.New("operation not valid in current session state")
)

// Data call errors for the authenticated API surface.
var (
	// ErrNotAuthenticated is returned by account, quote, and order calls
	// before the handshake has reached the authenticated state.
	ErrNotAuthenticated = errors.New("session not authenticated")

	// ErrRequestFailed indicates a transport or HTTP status failure on an
	// authenticated API call.
	ErrRequestFailed = errors.New("request failed")

	// ErrResponseFailed indicates an application-level error reported in the
	// body of an authenticated API call.
	ErrResponseFailed = errors.New("service reported an error")
)
