// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// ListMenu returns the menu of a restaurant.
func (a *APICtrl) ListMenu(w http.ResponseWriter, r *http.Request) {
	restaurant := a.getRestaurant(w, r)
	if restaurant == nil {
		return
	}
	items, err := a.Store.MenuItem().List(restaurant.ID)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if err := render.RenderList(w, r, NewMenuItemListResponse(items)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// CreateMenuItem adds an item to the menu of a restaurant.
func (a *APICtrl) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurant := a.getOwnedRestaurant(w, r)
	if restaurant == nil {
		return
	}

	data := &MenuItemRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	item := data.MenuItem
	item.ID = 0
	item.RestaurantID = restaurant.ID

	err := a.Store.MenuItem().Create(item)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	log.Debugf("Menu item %d added to restaurant %d", item.ID, restaurant.ID)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, NewMenuItemResponse(item)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// UpdateMenuItem updates an item of the menu of a restaurant.
func (a *APICtrl) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurant := a.getOwnedRestaurant(w, r)
	if restaurant == nil {
		return
	}
	current := a.getMenuItem(w, r, restaurant.ID)
	if current == nil {
		return
	}

	data := &MenuItemRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	item := data.MenuItem
	item.ID = current.ID
	item.CreatedAt = current.CreatedAt
	item.RestaurantID = restaurant.ID

	err := a.Store.MenuItem().Update(item)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if err := render.Render(w, r, NewMenuItemResponse(item)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// DeleteMenuItem removes an item from the menu of a restaurant.
func (a *APICtrl) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurant := a.getOwnedRestaurant(w, r)
	if restaurant == nil {
		return
	}
	item := a.getMenuItem(w, r, restaurant.ID)
	if item == nil {
		return
	}

	err := a.Store.MenuItem().Delete(item)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	if err := render.Render(w, r, NewMenuItemResponse(item)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// getMenuItem gets the menu item designated by the url, or renders an error and returns nil.
func (a *APICtrl) getMenuItem(w http.ResponseWriter, r *http.Request, restaurantID uint) *stor.MenuItem {
	id, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 32)
	if err != nil || id == 0 {
		render.Render(w, r, ErrInvalidRequest(errors.New("invalid menu item identifier")))
		return nil
	}
	item, err := a.Store.MenuItem().Get(restaurantID, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		render.Render(w, r, ErrNotFound)
		return nil
	}
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return nil
	}
	return item
}

// MenuItemRequest is the request menu item payload.
type MenuItemRequest struct {
	*stor.MenuItem
}

// Bind post-processes requests after unmarshalling.
func (m *MenuItemRequest) Bind(r *http.Request) error {
	if m.MenuItem == nil {
		return errors.New("missing required menu item fields")
	}
	return m.MenuItem.Validate()
}

// MenuItemResponse is the response menu item payload.
type MenuItemResponse struct {
	*stor.MenuItem
}

// NewMenuItemListResponse creates a rendered list of menu items
func NewMenuItemListResponse(items *[]stor.MenuItem) []render.Renderer {
	list := []render.Renderer{}
	for i := 0; i < len(*items); i++ {
		list = append(list, NewMenuItemResponse(&(*items)[i]))
	}
	return list
}

// NewMenuItemResponse creates a rendered menu item.
func NewMenuItemResponse(item *stor.MenuItem) *MenuItemResponse {
	return &MenuItemResponse{MenuItem: item}
}

// Render processes responses before marshalling.
func (m *MenuItemResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
