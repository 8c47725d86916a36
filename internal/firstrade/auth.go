package firstrade

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// rememberDays is sent on every verify call; the service keeps the issued
// session token valid for this many days.
const rememberDays = "30"

// LoginStatus reports how far Login progressed.
type LoginStatus int

const (
	// LoginComplete means the session is authenticated and no further
	// caller action is needed.
	LoginComplete LoginStatus = iota
	// LoginCodeRequired means a one-time code was sent to the selected
	// channel and CompleteLogin must be called with it.
	LoginCodeRequired
)

// Login drives the handshake from unauthenticated to either authenticated
// or awaiting a second-factor code. It loads a previously persisted session
// token first; when the service accepts it, no second factor is demanded
// and the handshake completes in a single round trip.
//
// On any error the Client transitions to StateFailed and must be discarded.
func (c *Client) Login(ctx context.Context) (LoginStatus, error) {
	if c.state.phase != StateUnauthenticated {
		return 0, c.fail(fmt.Errorf("%w: login from %s", ErrInvalidState, c.state.phase))
	}
	c.state.phase = StateAwaitingFirstFactor

	if token, err := c.store.Load(c.creds.Username); err != nil {
		// A broken store only costs the short-circuit; the full handshake
		// still works without the token.
		log.Printf("[Firstrade] loading persisted token: %v", err)
	} else if token != "" {
		c.headers["ftat"] = token
	}

	// Bootstrap the host before presenting the anonymous access token.
	if _, _, err := c.get(ctx, "/", nil); err != nil {
		return 0, c.fail(fmt.Errorf("%w: %v", ErrAuthRequestFailed, err))
	}
	c.headers["access-token"] = anonymousAccessToken

	form := url.Values{}
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	body, status, err := c.postForm(ctx, pathLogin, form)
	if err != nil {
		return 0, c.fail(fmt.Errorf("%w: %v", ErrAuthRequestFailed, err))
	}
	if status != http.StatusOK {
		return 0, c.fail(fmt.Errorf("%w: status %d", ErrAuthRequestFailed, status))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, c.fail(fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err))
	}

	// No second-factor indicator and no error: the persisted token was
	// accepted and the session is live.
	if resp.MFA == nil && resp.FTAT != "" && resp.Error == "" {
		c.finish(resp)
		return LoginComplete, nil
	}
	if resp.Error != "" {
		return 0, c.fail(fmt.Errorf("%w: %s", ErrAuthResponseFailed, resp.Error))
	}

	c.state.tToken = resp.TToken
	return c.dispatchSecondFactor(ctx, resp.OTPOptions)
}

// dispatchSecondFactor submits exactly one configured second-factor method.
// PIN and shared-secret codes complete the handshake immediately; the
// email/phone path only requests delivery and hands control back.
func (c *Client) dispatchSecondFactor(ctx context.Context, options []OTPOption) (LoginStatus, error) {
	switch {
	case c.creds.PIN != "":
		form := url.Values{}
		form.Set("pin", c.creds.PIN)
		form.Set("remember_for", rememberDays)
		form.Set("t_token", c.state.tToken)
		if err := c.verify(ctx, form); err != nil {
			return 0, c.fail(err)
		}
		return LoginComplete, nil

	case c.creds.MFASecret != "":
		code, err := totp.GenerateCode(c.creds.MFASecret, time.Now())
		if err != nil {
			return 0, c.fail(fmt.Errorf("computing time-based code: %w", err))
		}
		form := url.Values{}
		form.Set("mfaCode", code)
		form.Set("remember_for", rememberDays)
		form.Set("t_token", c.state.tToken)
		if err := c.verify(ctx, form); err != nil {
			return 0, c.fail(err)
		}
		return LoginComplete, nil

	case c.creds.Email != "" || c.creds.Phone != "":
		return c.requestCode(ctx, options)

	default:
		return 0, c.fail(ErrMFAMethodMissing)
	}
}

// requestCode selects the first channel candidate matching the configured
// email or phone, in server-provided order, and asks the service to send a
// one-time code to it.
func (c *Client) requestCode(ctx context.Context, options []OTPOption) (LoginStatus, error) {
	selected, ok := c.selectChannel(options)
	if !ok {
		return 0, c.fail(ErrNoOTPChannelAvailable)
	}

	form := url.Values{}
	form.Set("recipientId", selected.RecipientID)
	form.Set("t_token", c.state.tToken)

	body, status, err := c.postForm(ctx, pathRequestCode, form)
	if err != nil {
		return 0, c.fail(fmt.Errorf("%w: %v", ErrAuthRequestFailed, err))
	}
	if status != http.StatusOK {
		return 0, c.fail(fmt.Errorf("%w: status %d", ErrAuthRequestFailed, status))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, c.fail(fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err))
	}
	if resp.Error != "" {
		return 0, c.fail(fmt.Errorf("%w: %s", ErrAuthResponseFailed, resp.Error))
	}

	// The verification sid replaces the session id until the code arrives.
	c.headers["sid"] = resp.VerificationSID
	c.state.phase = StateAwaitingSecondFactor
	return LoginCodeRequired, nil
}

// selectChannel returns the first candidate whose channel type and masked
// recipient match the configured phone or email.
func (c *Client) selectChannel(options []OTPOption) (OTPOption, bool) {
	for _, opt := range options {
		switch opt.Channel {
		case "sms":
			if c.creds.Phone != "" && strings.Contains(opt.RecipientMask, c.creds.Phone) {
				return opt, true
			}
		case "email":
			if c.maskedEmail != "" && c.maskedEmail == opt.RecipientMask {
				return opt, true
			}
		}
	}
	return OTPOption{}, false
}

// CompleteLogin finishes an email/phone handshake with the code the user
// received out-of-band.
func (c *Client) CompleteLogin(ctx context.Context, code string) error {
	if c.state.phase != StateAwaitingSecondFactor {
		return c.fail(fmt.Errorf("%w: complete login from %s", ErrInvalidState, c.state.phase))
	}

	form := url.Values{}
	form.Set("otpCode", code)
	form.Set("verificationSid", c.headers["sid"])
	form.Set("remember_for", rememberDays)
	form.Set("t_token", c.state.tToken)

	return c.verify(ctx, form)
}

// verify posts one second-factor proof and finishes the handshake on
// success. The caller owns marking the Client failed for PIN/TOTP paths;
// this helper marks it for the CompleteLogin path via fail in its errors.
func (c *Client) verify(ctx context.Context, form url.Values) error {
	body, status, err := c.postForm(ctx, pathVerifyPIN, form)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrAuthRequestFailed, err))
	}
	if status != http.StatusOK {
		return c.fail(fmt.Errorf("%w: status %d", ErrAuthRequestFailed, status))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err))
	}
	if resp.Error != "" {
		return c.fail(fmt.Errorf("%w: %s", ErrAuthResponseFailed, resp.Error))
	}

	c.finish(resp)
	return nil
}

// finish captures the session id and token, persists the token, and settles
// the Client in the authenticated state.
func (c *Client) finish(resp loginResponse) {
	if resp.FTAT != "" {
		c.headers["ftat"] = resp.FTAT
	}
	c.headers["sid"] = resp.SID
	c.state.tToken = ""
	c.state.phase = StateAuthenticated

	if err := c.store.Save(c.creds.Username, c.headers["ftat"]); err != nil {
		// The live session is unaffected; only the next process start loses
		// the short-circuit.
		log.Printf("[Firstrade] persisting session token: %v", err)
	}
}

// fail moves the Client to the terminal failed state and passes the error
// through. Already-terminal states stay terminal.
func (c *Client) fail(err error) error {
	if c.state.phase != StateAuthenticated {
		c.state.phase = StateFailed
	}
	return err
}

// Logout deletes the persisted session token. It is local-only: the service
// exposes no session-invalidation endpoint, so the server-side session ages
// out on its own. Deleting an absent token is a no-op.
func (c *Client) Logout() error {
	if err := c.store.Delete(c.creds.Username); err != nil {
		return fmt.Errorf("deleting persisted token: %w", err)
	}
	delete(c.headers, "ftat")
	delete(c.headers, "sid")
	c.state = state{phase: StateUnauthenticated}
	return nil
}

// maskEmail converts an address to the service's mask format: first rune of
// the local part and domain, four stars, original TLD.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 {
		return email
	}
	return fmt.Sprintf("%c****@%c****%s", local[0], domain[0], domain[dot:])
}
