package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/box-webauth/docs"
	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driving"
	"github.com/custodia-labs/box-webauth/internal/worker"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"session store unavailable"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse represents the readiness response
// @Description Readiness response
type ReadyResponse struct {
	Status  string         `json:"status" example:"ready"`
	Janitor *worker.Health `json:"janitor,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the service (pings the session backend)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.sessionStore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.sessionStore.Ping(ctx); err != nil {
			s.logger.Warn("session store not ready", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
	}

	resp := ReadyResponse{Status: "ready"}
	if s.janitor != nil {
		health := s.janitor.Health()
		if !health.Running {
			s.logger.Warn("session janitor not running", "last_error", health.Error)
			writeError(w, http.StatusServiceUnavailable, "session janitor stopped")
			return
		}
		resp.Janitor = &health
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleVersion godoc
// @Summary      Get version
// @Description  Returns the running version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "api description unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// Flow endpoints

// handleIndex godoc
// @Summary      Index and OAuth callback
// @Description  Renders the credentials form, or completes the authorization code flow when Box redirects back with a code or an error
// @Tags         WebAuth
// @Produce      html
// @Param        error              query  string  false  "Error code reported by Box"
// @Param        error_description  query  string  false  "Error description reported by Box"
// @Param        code               query  string  false  "Authorization code"
// @Param        state              query  string  false  "Anti-forgery token"
// @Success      200  {string}  string  "Form or result page"
// @Failure      400  {string}  string  "Provider error or forged request"
// @Failure      500  {string}  string  "Unexpected failure"
// @Router       / [get]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())
	outcome := s.webAuthService.Dispatch(r.Context(), sess, parseCallback(r.URL.Query()))
	s.renderOutcome(w, outcome)
}

// handleAuthorize godoc
// @Summary      Start authorization
// @Description  Stashes the client credentials and a fresh anti-forgery token in the session and redirects to Box for consent
// @Tags         WebAuth
// @Produce      html
// @Param        clientId      query  string  true   "Box client id"
// @Param        clientSecret  query  string  false  "Box client secret"
// @Success      302  {string}  string  "Redirect to the Box authorization page"
// @Failure      400  {string}  string  "Missing client id"
// @Failure      500  {string}  string  "Unexpected failure"
// @Router       /Authorize [get]
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := driving.AuthorizeRequest{
		ClientID:     q.Get("clientId"),
		ClientSecret: q.Get("clientSecret"),
	}

	resp, err := s.webAuthService.Authorize(r.Context(), GetSession(r.Context()), req)
	if err != nil {
		var flowErr *domain.FlowError
		if errors.As(err, &flowErr) && flowErr.Info.Kind == domain.ErrorKindInvalidRequest {
			s.renderError(w, http.StatusBadRequest, flowErr.Info)
			return
		}

		s.logger.Error("authorize failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, domain.ErrorInfo{
			Kind:        domain.ErrorKindUnexpectedFailure,
			Message:     err.Error(),
			Description: domain.NoDescription,
		})
		return
	}

	http.Redirect(w, r, resp.AuthorizationURL, http.StatusFound)
}

// renderOutcome writes the page selected by the dispatcher
func (s *Server) renderOutcome(w http.ResponseWriter, outcome *driving.Outcome) {
	switch outcome.View {
	case driving.ViewError:
		s.renderError(w, outcome.Status, *outcome.Error)
	case driving.ViewResult:
		s.render(w, outcome.Status, ViewIndex, IndexPage{Result: outcome.Result})
	default:
		s.render(w, outcome.Status, ViewIndex, IndexPage{})
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, info domain.ErrorInfo) {
	s.render(w, status, ViewError, ErrorPage{Message: info.Message, Description: info.Description})
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	// Result pages show tokens; keep them out of caches
	w.Header().Set("Cache-Control", "no-store")
	if err := s.views.Render(w, status, page, data); err != nil {
		s.logger.Error("failed to render view", "view", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// parseCallback maps the index query onto a CallbackRequest.
// A parameter that is present but blank stays distinguishable from an absent one.
func parseCallback(q url.Values) driving.CallbackRequest {
	return driving.CallbackRequest{
		Error:            queryParam(q, "error"),
		ErrorDescription: queryParam(q, "error_description"),
		Code:             queryParam(q, "code"),
		State:            queryParam(q, "state"),
	}
}

func queryParam(q url.Values, key string) *string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	value := ""
	if len(values) > 0 {
		value = values[0]
	}
	return &value
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
