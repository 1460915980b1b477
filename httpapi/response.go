package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cliptube/accounts"
)

// Response is the success envelope shared by every endpoint.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(c echo.Context, err error) error {
	status, message := classify(err)
	return c.JSON(status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

// classify maps engine sentinels onto wire status codes. Anything
// unrecognized is an internal error; its detail stays out of the envelope.
func classify(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.sentinel) {
			return m.status, m.sentinel.Error()
		}
	}
	return http.StatusInternalServerError, "something went wrong"
}

var mappings = []struct {
	sentinel error
	status   int
}{
	{accounts.ErrFieldsRequired, http.StatusBadRequest},
	{accounts.ErrAvatarRequired, http.StatusBadRequest},
	{accounts.ErrAccountExists, http.StatusConflict},
	{accounts.ErrUserNotFound, http.StatusNotFound},
	{accounts.ErrInvalidCredentials, http.StatusUnauthorized},
	{accounts.ErrUnauthorized, http.StatusUnauthorized},
	{accounts.ErrRefreshInvalid, http.StatusUnauthorized},
	{accounts.ErrRefreshSuperseded, http.StatusUnauthorized},
	{accounts.ErrTokenPersistence, http.StatusInternalServerError},
}
