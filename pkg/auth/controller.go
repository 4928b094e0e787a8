// Package auth orchestrates the login and sign-up flows: local validation
// first, then a single request to the remote service, then the session
// store update. No retries; the user resubmits on failure.
package auth

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gophertribe/notesync/pkg/fault"
	"github.com/gophertribe/notesync/pkg/gateway"
	"github.com/gophertribe/notesync/pkg/notes"
	"github.com/gophertribe/notesync/pkg/session"
	"github.com/gophertribe/notesync/pkg/validate"
)

// State is the position of a flow in its lifecycle. Exposed for
// observability; transitions are Idle -> Validating -> Submitting ->
// Success or Failed.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateFailed
)

// User-facing messages, kept identical across flows so validation feedback
// is consistent.
const (
	msgInvalidEmail    = "Please enter a valid email address."
	msgInvalidPassword = "Please enter the password with minimum eight characters, " +
		"at least one uppercase letter, one lowercase letter, one number and one special character."
	msgInvalidName        = "Name must be at least 5 characters long."
	msgPasswordMismatch   = "Passwords do not match."
	msgInvalidCredentials = "Invalid login credentials."
	msgUnexpected         = "An unexpected error occurred. Please try again."
	msgSessionExpired     = "Your session has expired. Please log in again."
)

// Result is the outcome of a successful flow. Celebrate asks the view to
// render its cosmetic sign-up effect; it is time-boxed by the view and
// never retried.
type Result struct {
	Token     string
	Celebrate bool
}

// Controller runs the auth flows against the remote service.
type Controller struct {
	gw    *gateway.Client
	store session.Store
	log   zerolog.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a Controller in the Idle state.
func NewController(gw *gateway.Client, store session.Store, log zerolog.Logger) *Controller {
	return &Controller{gw: gw, store: store, log: log, state: StateIdle}
}

// State returns the current flow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Error       bool   `json:"error"`
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

// Login validates the credentials and, when they pass, submits them. The
// token from a successful response is written to the session store.
func (c *Controller) Login(ctx context.Context, email, password string) (*Result, error) {
	c.setState(StateValidating)
	if !validate.Email(email) {
		c.setState(StateFailed)
		return nil, fault.New(fault.Validation, msgInvalidEmail)
	}
	if !validate.Password(password) {
		c.setState(StateFailed)
		return nil, fault.New(fault.Validation, msgInvalidPassword)
	}

	c.setState(StateSubmitting)
	var resp authResponse
	err := c.gw.Post(ctx, "/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		c.setState(StateFailed)
		return nil, c.remoteFailure(err)
	}
	if resp.AccessToken == "" {
		c.setState(StateFailed)
		return nil, fault.New(fault.Server, msgInvalidCredentials)
	}

	if err := c.store.SetToken(resp.AccessToken); err != nil {
		c.setState(StateFailed)
		return nil, fault.Wrap(fault.Transport, msgUnexpected, err)
	}
	c.setState(StateSuccess)
	c.log.Info().Str("email", email).Msg("login succeeded")
	return &Result{Token: resp.AccessToken}, nil
}

// SignUp validates all fields in order (name, email, password,
// confirmation; first failure wins) and submits the account request. The
// response body's error flag is checked before the token is trusted: the
// server may report a logical failure with a success status.
func (c *Controller) SignUp(ctx context.Context, name, email, password, confirmation string) (*Result, error) {
	c.setState(StateValidating)
	switch {
	case !validate.Name(name):
		c.setState(StateFailed)
		return nil, fault.New(fault.Validation, msgInvalidName)
	case !validate.Email(email):
		c.setState(StateFailed)
		return nil, fault.New(fault.Validation, msgInvalidEmail)
	case !validate.Password(password):
		c.setState(StateFailed)
		return nil, fault.New(fault.Validation, msgInvalidPassword)
	case !validate.PasswordsMatch(password, confirmation):
		c.setState(StateFailed)
		return nil, fault.New(fault.Validation, msgPasswordMismatch)
	}

	c.setState(StateSubmitting)
	var resp authResponse
	err := c.gw.Post(ctx, "/create-account", signUpRequest{FullName: name, Email: email, Password: password}, &resp)
	if err != nil {
		c.setState(StateFailed)
		return nil, c.remoteFailure(err)
	}
	if resp.Error {
		c.setState(StateFailed)
		msg := resp.Message
		if msg == "" {
			msg = msgUnexpected
		}
		return nil, fault.New(fault.Server, msg)
	}
	if resp.AccessToken == "" {
		c.setState(StateFailed)
		return nil, fault.New(fault.Server, msgUnexpected)
	}

	if err := c.store.SetToken(resp.AccessToken); err != nil {
		c.setState(StateFailed)
		return nil, fault.Wrap(fault.Transport, msgUnexpected, err)
	}
	c.setState(StateSuccess)
	c.log.Info().Str("email", email).Msg("account created")
	return &Result{Token: resp.AccessToken, Celebrate: true}, nil
}

// Profile fetches the authenticated user. A 401 clears the session and
// comes back as an auth failure so the caller re-enters login.
func (c *Controller) Profile(ctx context.Context) (*notes.User, error) {
	var resp struct {
		User *notes.User `json:"user"`
	}
	err := c.gw.Get(ctx, "/get-user", nil, &resp)
	if err != nil {
		if gateway.HandleAuthFailure(err, c.store) {
			c.log.Warn().Msg("session rejected, cleared stored token")
			return nil, fault.Wrap(fault.Auth, msgSessionExpired, err)
		}
		return nil, c.remoteFailure(err)
	}
	if resp.User == nil {
		return nil, fault.New(fault.Server, msgUnexpected)
	}
	return resp.User, nil
}

// Logout clears the stored session. Idempotent.
func (c *Controller) Logout() error {
	return c.store.Clear()
}

func (c *Controller) remoteFailure(err error) *fault.Failure {
	if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.Message != "" {
		return fault.Wrap(fault.Server, apiErr.Message, err)
	}
	c.log.Error().Err(err).Msg("request failed")
	return fault.Wrap(fault.Transport, msgUnexpected, err)
}
