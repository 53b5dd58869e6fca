// Package handler contains the HTTP page handlers. Handlers parse requests,
// call the service layer and render templates; every failure path ends in a
// visible, dismissible page state rather than a bare status code.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ravindu/helpdesk-web/internal/apperror"
	"github.com/ravindu/helpdesk-web/internal/helpdesk"
	"github.com/ravindu/helpdesk-web/internal/model"
	"github.com/ravindu/helpdesk-web/internal/session"
)

// basePage is the data every template receives: the page title and the
// current user for the navigation bar (nil when anonymous).
type basePage struct {
	Title string
	User  *model.User
}

func newBasePage(r *http.Request, title string) basePage {
	return basePage{
		Title: title,
		User:  session.FromContext(r.Context()).CurrentUser(),
	}
}

// questionID extracts the {id} path parameter.
func questionID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("question", chi.URLParam(r, "id"))
	}
	return id, nil
}

// notice turns an error into the user-facing message shown in a dismissible
// banner. HTTP and network failures are retryable and say so; validation and
// auth failures carry their own wording.
func notice(err error) string {
	var httpErr *helpdesk.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("The helpdesk service rejected the request (status %d): %s. Please try again.",
			httpErr.Status, httpErr.Message)
	}

	var netErr *helpdesk.NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the helpdesk service. Check your connection and try again."
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return "Something went wrong. Please try again."
}

// fieldError returns the offending form field for validation errors, or "".
func fieldError(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation) {
		return appErr.Field
	}
	return ""
}

// isNotFound reports whether err is a local not-found or a remote 404.
func isNotFound(err error) bool {
	if errors.Is(err, apperror.ErrNotFound) {
		return true
	}
	var httpErr *helpdesk.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}
