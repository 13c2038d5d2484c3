// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// maxTopOwners bounds the ?top= parameter of the dashboard
const maxTopOwners = 50

// GetDashboardData returns the catalog statistics: totals, averages, top owners and
// restaurants created per month. The number of top owners defaults to the configured
// value and may be set by ?top=.
func (a *APICtrl) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	topOwners := a.Config.Dashboard.TopOwners
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < 1 || n > maxTopOwners {
			render.Render(w, r, ErrInvalidRequest(errors.New("top must be a number between 1 and 50")))
			return
		}
		topOwners = n
	}

	data, err := a.Store.Dashboard().GetDashboard(topOwners)
	if err != nil {
		log.Errorf("Dashboard: failed to compute the statistics: %v", err)
		render.Render(w, r, ErrServer(err))
		return
	}

	if err := render.Render(w, r, &DashboardResponse{DashboardData: data}); err != nil {
		render.Render(w, r, ErrRender(err))
	}
}

// DashboardResponse is the catalog statistics payload.
type DashboardResponse struct {
	*stor.DashboardData
	GeneratedAt time.Time `json:"generatedAt"`
}

// Render stamps the statistics.
func (d *DashboardResponse) Render(w http.ResponseWriter, r *http.Request) error {
	d.GeneratedAt = time.Now().UTC()
	return nil
}
