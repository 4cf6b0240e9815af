// Package handlers exposes the purge engine as a function-style HTTP
// endpoint.
package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/bnema/regsweep/internal/config"
	"github.com/bnema/regsweep/internal/purge"
	"github.com/bnema/regsweep/internal/registry"
)

// ClientFactory builds a registry client from resolved credentials. It is
// injected so tests can swap in a fake registry.
type ClientFactory func(config.Credentials) (registry.Client, error)

// Response is the function-style envelope: the run result (or error) as
// body, plus the status code mirrored inside the payload.
type Response struct {
	Body       any `json:"body"`
	StatusCode int `json:"statusCode"`
}

// ErrorBody is the body of a failed invocation.
type ErrorBody struct {
	Error string `json:"error"`
}

// PurgeHandler runs one purge pass per invocation.
type PurgeHandler struct {
	newClient ClientFactory
}

// NewPurgeHandler creates a handler using the given client factory.
func NewPurgeHandler(factory ClientFactory) *PurgeHandler {
	return &PurgeHandler{newClient: factory}
}

// PostPurge accepts an optional JSON object of environment-style keys
// overriding the process environment, runs one full pass, and returns the
// report. A completed run is always 200, even when individual deletions
// failed; only configuration errors (400) and fatal enumeration errors
// (500) surface as non-200.
func (h *PurgeHandler) PostPurge(c echo.Context) error {
	options := map[string]string{}
	if err := c.Bind(&options); err != nil {
		log.Error("failed to parse request options", "error", err)
		return sendJSONResponse(c, http.StatusBadRequest, ErrorBody{
			Error: "request body must be a JSON object of configuration keys",
		})
	}

	cfg, err := config.FromMap(options)
	if err != nil {
		log.Error("failed to resolve configuration", "error", err)
		return sendJSONResponse(c, http.StatusBadRequest, ErrorBody{Error: err.Error()})
	}

	client, err := h.newClient(cfg.Credentials)
	if err != nil {
		log.Error("failed to create registry client", "error", err)
		return sendJSONResponse(c, http.StatusInternalServerError, ErrorBody{Error: err.Error()})
	}

	report, err := purge.NewRunner(client, cfg.Criteria).Run(c.Request().Context())
	if err != nil {
		var enumErr *purge.EnumerationError
		if errors.As(err, &enumErr) {
			log.Error("purge run aborted", "scope", enumErr.Scope, "error", enumErr.Err)
		} else {
			log.Error("purge run aborted", "error", err)
		}
		return sendJSONResponse(c, http.StatusInternalServerError, ErrorBody{Error: err.Error()})
	}

	return sendJSONResponse(c, http.StatusOK, report)
}

// GetHealth is the liveness probe.
func GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func sendJSONResponse(c echo.Context, statusCode int, body any) error {
	return c.JSON(statusCode, Response{Body: body, StatusCode: statusCode})
}
