// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// Me returns the authenticated owner and the restaurants it owns.
func (a *APICtrl) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(errors.New("missing owner credentials")))
		return
	}

	owner, err := a.Store.Owner().Get(claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		render.Render(w, r, ErrUnauthorized(errors.New("unknown owner")))
		return
	}
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}

	restaurants, err := a.Store.Restaurant().FindByOwner(owner.UUID)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}

	resp := &OwnerResponse{Owner: owner, Restaurants: []*RestaurantResponse{}}
	for i := range *restaurants {
		resp.Restaurants = append(resp.Restaurants, a.NewRestaurantResponse(&(*restaurants)[i]))
	}
	if err := render.Render(w, r, resp); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// MyEvents returns the login history of the authenticated owner.
func (a *APICtrl) MyEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(errors.New("missing owner credentials")))
		return
	}
	a.renderEvents(w, r, claims.Subject)
}

// OwnerEvents returns the login history of an owner.
func (a *APICtrl) OwnerEvents(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	if _, err := a.Store.Owner().Get(ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.Render(w, r, ErrNotFound)
			return
		}
		render.Render(w, r, ErrServer(err))
		return
	}
	a.renderEvents(w, r, ownerID)
}

func (a *APICtrl) renderEvents(w http.ResponseWriter, r *http.Request, ownerID string) {
	events, err := a.Store.Event().List(ownerID)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	list := []render.Renderer{}
	for i := range *events {
		list = append(list, &EventResponse{Event: &(*events)[i]})
	}
	if err := render.RenderList(w, r, list); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// EventResponse is the response event payload.
type EventResponse struct {
	*stor.Event
}

// Render processes responses before marshalling.
func (e *EventResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// OwnerResponse is the response owner payload.
type OwnerResponse struct {
	*stor.Owner
	Restaurants []*RestaurantResponse `json:"restaurants"`
}

// Render processes responses before marshalling.
func (o *OwnerResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
