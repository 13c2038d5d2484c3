// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
)

// ErrResponse renders errors as problem details (RFC 7807).
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Render processes responses before marshalling.
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newErr(err error, status int, title string) render.Renderer {
	e := &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		Type:           "about:blank",
		Title:          title,
		Status:         status,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func ErrInvalidRequest(err error) render.Renderer {
	return newErr(err, http.StatusBadRequest, "Invalid request.")
}

func ErrUnauthorized(err error) render.Renderer {
	return newErr(err, http.StatusUnauthorized, "Unauthorized.")
}

func ErrForbidden(err error) render.Renderer {
	return newErr(err, http.StatusForbidden, "Forbidden.")
}

func ErrTooManyRequests(err error) render.Renderer {
	return newErr(err, http.StatusTooManyRequests, "Too many requests.")
}

func ErrUpstream(err error) render.Renderer {
	log.Errorf("Upstream error: %v", err)
	return newErr(err, http.StatusBadGateway, "Upstream service error.")
}

func ErrServer(err error) render.Renderer {
	log.Errorf("Server error: %v", err)
	return newErr(err, http.StatusInternalServerError, "Internal server error.")
}

func ErrRender(err error) render.Renderer {
	return newErr(err, http.StatusUnprocessableEntity, "Error rendering response.")
}

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, Type: "about:blank", Title: "Resource not found.", Status: http.StatusNotFound}

// ErrFeatureDisabled is returned when an endpoint is disabled by the configuration.
var ErrFeatureDisabled = &ErrResponse{HTTPStatusCode: http.StatusNotFound, Type: "about:blank", Title: "Feature not enabled.", Status: http.StatusNotFound}
