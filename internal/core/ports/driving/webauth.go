package driving

import (
	"context"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/session"
)

// WebAuthService drives the OAuth2 authorization code flow for one visitor.
type WebAuthService interface {
	// Authorize starts the flow.
	// It stashes the credentials and a fresh anti-forgery token in the session
	// and returns the provider authorization URL to redirect to.
	Authorize(ctx context.Context, sess *session.Session, req AuthorizeRequest) (*AuthorizeResponse, error)

	// Dispatch inspects the callback parameters of an index request and runs
	// the matching branch of the flow. It never returns an error: every failure
	// is reported through the returned Outcome.
	Dispatch(ctx context.Context, sess *session.Session, req CallbackRequest) *Outcome
}

// AuthorizeRequest represents the Authorize form submission.
// @Description Client credentials of the Box application to authorize
type AuthorizeRequest struct {
	// ClientID is the Box application's client id
	ClientID string `json:"clientId" validate:"required" example:"abc"`

	// ClientSecret is the Box application's client secret
	ClientSecret string `json:"clientSecret" example:"s3cr3t"`
}

// AuthorizeResponse contains the authorization URL and state.
type AuthorizeResponse struct {
	// AuthorizationURL is the URL to redirect the visitor to for consent
	AuthorizationURL string `json:"authorization_url" example:"https://app.box.com/api/oauth2/authorize?client_id=abc&response_type=code&state=..."`

	// State is the anti-forgery token that will be returned in the callback
	State string `json:"state"`
}

// CallbackRequest carries the query parameters of an index request.
// Nil fields were absent from the query; empty strings were present but blank.
type CallbackRequest struct {
	Error            *string
	ErrorDescription *string
	Code             *string
	State            *string
}

// View selects the page an Outcome renders
type View string

const (
	ViewIndex  View = "index"
	ViewResult View = "result"
	ViewError  View = "error"
)

// Outcome is the tagged result of a dispatched request.
type Outcome struct {
	// State is the dispatcher state the request was routed to
	State domain.FlowState

	// View is the page to render
	View View

	// Status is the HTTP status to answer with
	Status int

	// Result is set for ViewResult
	Result *domain.AuthResult

	// Error is set for ViewError
	Error *domain.ErrorInfo
}
