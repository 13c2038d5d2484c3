// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// ListRestaurants lists the restaurants of the catalog, optionally filtered by a search term (?q=).
// Pagination applies to search results as well.
func (a *APICtrl) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	var restaurants *[]stor.Restaurant
	var err error

	page, perPage := pagination(r)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		restaurants, err = a.Store.Restaurant().Search(q, page, perPage)
	} else if page > 0 && perPage > 0 {
		restaurants, err = a.Store.Restaurant().List(page, perPage)
	} else {
		restaurants, err = a.Store.Restaurant().ListAll()
	}
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if err := render.RenderList(w, r, a.NewRestaurantListResponse(restaurants)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// SearchRestaurants searches restaurants by name or description, ignoring case and accents.
func (a *APICtrl) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		render.Render(w, r, ErrInvalidRequest(errors.New("missing required search term q")))
		return
	}
	page, perPage := pagination(r)
	restaurants, err := a.Store.Restaurant().Search(q, page, perPage)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if err := render.RenderList(w, r, a.NewRestaurantListResponse(restaurants)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// GetRestaurant returns a restaurant with its menu.
func (a *APICtrl) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := a.getRestaurant(w, r)
	if restaurant == nil {
		return
	}
	if err := render.Render(w, r, a.NewRestaurantResponse(restaurant)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// CreateRestaurant adds a new restaurant, owned by the authenticated owner.
// The menu may be sent with the restaurant.
func (a *APICtrl) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(errors.New("missing owner credentials")))
		return
	}

	// get the payload
	data := &RestaurantRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	restaurant := data.Restaurant
	restaurant.ID = 0
	restaurant.OwnerID = claims.Subject
	for i := range restaurant.MenuItems {
		restaurant.MenuItems[i].ID = 0
		restaurant.MenuItems[i].RestaurantID = 0
	}
	if err := restaurant.Validate(); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	// db create
	err := a.Store.Restaurant().Create(restaurant)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	log.Infof("Restaurant %d created by %s", restaurant.ID, claims.Subject)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, a.NewRestaurantResponse(restaurant)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// UpdateRestaurant updates a restaurant of the authenticated owner.
// If the payload holds a menu, it replaces the current menu.
func (a *APICtrl) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	current := a.getOwnedRestaurant(w, r)
	if current == nil {
		return
	}

	// get the payload
	data := &RestaurantRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	restaurant := data.Restaurant

	// the owner and gorm fields are kept
	restaurant.ID = current.ID
	restaurant.CreatedAt = current.CreatedAt
	restaurant.OwnerID = current.OwnerID
	menu := restaurant.MenuItems
	restaurant.MenuItems = nil

	// db update
	err := a.Store.Restaurant().Update(restaurant)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if menu != nil {
		err = a.Store.MenuItem().ReplaceAll(restaurant.ID, menu)
		if err != nil {
			render.Render(w, r, ErrServer(err))
			return
		}
	}

	updated, err := a.Store.Restaurant().Get(restaurant.ID)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if err := render.Render(w, r, a.NewRestaurantResponse(updated)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// DeleteRestaurant removes a restaurant and its menu.
func (a *APICtrl) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := a.getOwnedRestaurant(w, r)
	if restaurant == nil {
		return
	}

	// db delete
	err := a.Store.Restaurant().Delete(restaurant)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	log.Infof("Restaurant %d deleted", restaurant.ID)

	if err := render.Render(w, r, a.NewRestaurantResponse(restaurant)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// --
// Utilities
// --

// getRestaurant gets the restaurant designated by the url, or renders an error and returns nil.
func (a *APICtrl) getRestaurant(w http.ResponseWriter, r *http.Request) *stor.Restaurant {
	id, err := strconv.ParseUint(chi.URLParam(r, "restaurantID"), 10, 32)
	if err != nil || id == 0 {
		render.Render(w, r, ErrInvalidRequest(errors.New("invalid restaurant identifier")))
		return nil
	}
	restaurant, err := a.Store.Restaurant().Get(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		render.Render(w, r, ErrNotFound)
		return nil
	}
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return nil
	}
	return restaurant
}

// getOwnedRestaurant gets the restaurant designated by the url and checks that the
// authenticated user is its owner or an admin.
func (a *APICtrl) getOwnedRestaurant(w http.ResponseWriter, r *http.Request) *stor.Restaurant {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(errors.New("missing owner credentials")))
		return nil
	}
	restaurant := a.getRestaurant(w, r)
	if restaurant == nil {
		return nil
	}
	if claims.Role != auth.RoleAdmin && restaurant.OwnerID != claims.Subject {
		render.Render(w, r, ErrForbidden(errors.New("the restaurant belongs to another owner")))
		return nil
	}
	return restaurant
}

// --
// Request and Response payloads for the REST api.
// --

// RestaurantRequest is the request restaurant payload.
type RestaurantRequest struct {
	*stor.Restaurant
}

// Bind post-processes requests after unmarshalling.
func (p *RestaurantRequest) Bind(r *http.Request) error {
	if p.Restaurant == nil {
		return errors.New("missing required restaurant fields")
	}
	return p.Restaurant.ValidatePayload()
}

// RestaurantResponse is the response restaurant payload.
type RestaurantResponse struct {
	*stor.Restaurant
	MapURL string `json:"map_url,omitempty"`
}

// NewRestaurantListResponse creates a rendered list of restaurants
func (a *APICtrl) NewRestaurantListResponse(restaurants *[]stor.Restaurant) []render.Renderer {
	list := []render.Renderer{}
	for i := 0; i < len(*restaurants); i++ {
		list = append(list, a.NewRestaurantResponse(&(*restaurants)[i]))
	}
	return list
}

// NewRestaurantResponse creates a rendered restaurant.
func (a *APICtrl) NewRestaurantResponse(restaurant *stor.Restaurant) *RestaurantResponse {
	return &RestaurantResponse{Restaurant: restaurant, MapURL: a.mapURL(restaurant)}
}

// Render processes responses before marshalling.
func (rr *RestaurantResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
