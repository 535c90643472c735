package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driving"
	"github.com/custodia-labs/box-webauth/internal/core/session"
)

// Ensure webAuthService implements WebAuthService
var _ driving.WebAuthService = (*webAuthService)(nil)

const forgedRequestDescription = "This code has already been used to fetch an authorization token."

// WebAuthServiceConfig holds configuration for the web auth service.
type WebAuthServiceConfig struct {
	// Provider builds authorization URLs and exchanges codes.
	Provider driven.OAuthProvider

	// Logger receives flow events. Defaults to slog.Default().
	Logger *slog.Logger

	// TokenGenerator creates anti-forgery tokens. Defaults to NewAntiForgeryToken.
	TokenGenerator func() (string, error)

	// ShowDiagnostics adds the wrapped error chain to unexpected failures.
	ShowDiagnostics bool
}

// webAuthService implements the WebAuthService interface.
type webAuthService struct {
	provider        driven.OAuthProvider
	logger          *slog.Logger
	newToken        func() (string, error)
	validate        *validator.Validate
	showDiagnostics bool
}

// NewWebAuthService creates a new web auth service.
func NewWebAuthService(cfg WebAuthServiceConfig) driving.WebAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newToken := cfg.TokenGenerator
	if newToken == nil {
		newToken = NewAntiForgeryToken
	}

	return &webAuthService{
		provider:        cfg.Provider,
		logger:          logger,
		newToken:        newToken,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		showDiagnostics: cfg.ShowDiagnostics,
	}
}

// Authorize starts the authorization code flow.
// It stashes the credentials and a fresh anti-forgery token, then returns the
// provider authorization URL. The provider validates the credentials.
func (s *webAuthService) Authorize(ctx context.Context, sess *session.Session, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.NewFlowError(
			domain.ErrorKindInvalidRequest,
			"invalid_request",
			"clientId is required",
			fmt.Errorf("%w: %v", domain.ErrInvalidInput, err),
		)
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}

	creds := domain.ClientCredentials{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	}
	if err := sess.Stash(ctx, creds, token); err != nil {
		return nil, fmt.Errorf("stash credentials: %w", err)
	}

	s.logger.Info("authorization started", "session_id", sess.ID(), "client_id", req.ClientID)

	return &driving.AuthorizeResponse{
		AuthorizationURL: s.provider.BuildAuthURL(req.ClientID, token),
		State:            token,
	}, nil
}

// Dispatch routes an index request by its query parameters.
// Priority: provider error, then authorization code, then fresh visit.
func (s *webAuthService) Dispatch(ctx context.Context, sess *session.Session, req driving.CallbackRequest) *driving.Outcome {
	switch {
	case req.Error != nil:
		return s.providerError(ctx, sess, *req.Error, req.ErrorDescription)
	case req.Code != nil:
		return s.exchange(ctx, sess, *req.Code, deref(req.State))
	default:
		if err := sess.Clear(ctx); err != nil {
			return s.unexpected(ctx, sess, domain.FlowStateFresh, err)
		}
		return &driving.Outcome{
			State:  domain.FlowStateFresh,
			View:   driving.ViewIndex,
			Status: http.StatusOK,
		}
	}
}

// providerError reports an error the provider echoed back before issuing a code
func (s *webAuthService) providerError(ctx context.Context, sess *session.Session, code string, description *string) *driving.Outcome {
	desc := domain.NoDescription
	if description != nil {
		desc = *description
	}

	s.logger.Warn("provider reported an error",
		"session_id", sess.ID(),
		"error", code,
		"error_description", desc,
	)
	s.clear(ctx, sess)

	return errorOutcome(domain.FlowStateProviderError, http.StatusOK, domain.ErrorInfo{
		Kind:        domain.ErrorKindProviderError,
		Message:     code,
		Description: desc,
	})
}

// exchange validates the anti-forgery token and trades the code for tokens.
// The stored token is consumed before anything else happens, so a replayed
// code/state pair is always rejected as forged.
func (s *webAuthService) exchange(ctx context.Context, sess *session.Session, code, state string) *driving.Outcome {
	const flowState = domain.FlowStateCallbackWithCode

	stored, err := sess.TakeAntiForgeryToken(ctx)
	if err != nil {
		return s.unexpected(ctx, sess, flowState, err)
	}

	if !ValidateAntiForgeryToken(stored, state) {
		flowErr := domain.NewFlowError(domain.ErrorKindForgedRequest, "forged_request", forgedRequestDescription, domain.ErrForgedRequest)
		s.logger.Warn("anti-forgery validation failed - possible forged or replayed callback",
			"session_id", sess.ID(),
			"error", errors.Unwrap(flowErr),
			"expected_state_len", len(stored),
			"received_state_len", len(state),
		)
		s.clear(ctx, sess)
		return errorOutcome(flowState, http.StatusBadRequest, flowErr.Info)
	}

	creds, err := sess.Credentials(ctx)
	if err != nil {
		return s.unexpected(ctx, sess, flowState, err)
	}

	token, err := s.provider.ExchangeCode(ctx, creds, code)
	if err != nil {
		var exchangeErr *driven.ExchangeError
		if errors.As(err, &exchangeErr) {
			return s.exchangeFailure(ctx, sess, exchangeErr)
		}
		return s.unexpected(ctx, sess, flowState, err)
	}

	s.clear(ctx, sess)
	s.logger.Info("authorization code exchanged", "session_id", sess.ID(), "client_id", creds.ClientID)

	return &driving.Outcome{
		State:  flowState,
		View:   driving.ViewResult,
		Status: http.StatusOK,
		Result: domain.NewAuthResult(creds, token),
	}
}

// exchangeFailure reports a failure the token endpoint answered with.
// The session is cleared like on every other failure path.
func (s *webAuthService) exchangeFailure(ctx context.Context, sess *session.Session, err *driven.ExchangeError) *driving.Outcome {
	status := err.StatusCode
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusBadGateway
	}

	message := http.StatusText(err.StatusCode)
	if message == "" {
		message = strconv.Itoa(err.StatusCode)
	}

	// OAuth error code first, then the provider's human readable text
	var details []string
	for _, part := range []string{err.Code, err.Message} {
		if part != "" {
			details = append(details, part)
		}
	}
	description := strings.Join(details, ": ")
	if description == "" {
		description = domain.NoDescription
	}

	s.logger.Warn("token exchange failed",
		"session_id", sess.ID(),
		"status", err.StatusCode,
		"error", err.Code,
	)
	s.clear(ctx, sess)

	return errorOutcome(domain.FlowStateCallbackWithCode, status, domain.ErrorInfo{
		Kind:        domain.ErrorKindExchangeFailure,
		Message:     message,
		Description: description,
	})
}

// unexpected reports any other failure as a server error
func (s *webAuthService) unexpected(ctx context.Context, sess *session.Session, state domain.FlowState, err error) *driving.Outcome {
	s.logger.Error("authorization flow failed", "session_id", sess.ID(), "error", err)
	s.clear(ctx, sess)

	description := domain.NoDescription
	if s.showDiagnostics {
		description = diagnostics(err)
	}

	return errorOutcome(state, http.StatusInternalServerError, domain.ErrorInfo{
		Kind:        domain.ErrorKindUnexpectedFailure,
		Message:     err.Error(),
		Description: description,
	})
}

// clear empties the session. A failure is logged and does not replace the
// outcome being reported: the anti-forgery token is already consumed.
func (s *webAuthService) clear(ctx context.Context, sess *session.Session) {
	if err := sess.Clear(ctx); err != nil {
		s.logger.Error("failed to clear session", "session_id", sess.ID(), "error", err)
	}
}

func errorOutcome(state domain.FlowState, status int, info domain.ErrorInfo) *driving.Outcome {
	return &driving.Outcome{
		State:  state,
		View:   driving.ViewError,
		Status: status,
		Error:  &info,
	}
}

// diagnostics renders the wrapped error chain with concrete types, outermost first
func diagnostics(err error) string {
	var b strings.Builder
	for i := 0; err != nil; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%T: %v", err, err)
		err = errors.Unwrap(err)
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
