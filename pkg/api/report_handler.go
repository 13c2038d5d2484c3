// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
)

// ReportRestaurants generates a CSV report of the restaurants created during a month or a day.
func (a *APICtrl) ReportRestaurants(w http.ResponseWriter, r *http.Request) {
	log.Debug("Report restaurants, monthly or daily")

	var from, to time.Time
	var err error
	var period string

	if month := r.URL.Query().Get("month"); month != "" {
		if date := r.URL.Query().Get("date"); date != "" {
			render.Render(w, r, ErrInvalidRequest(errors.New("cannot specify both month and date parameters")))
			return
		}
		from, err = time.ParseInLocation("2006-01", month, time.Local)
		to = from.AddDate(0, 1, 0)
		period = month
	} else if date := r.URL.Query().Get("date"); date != "" {
		from, err = time.ParseInLocation("2006-01-02", date, time.Local)
		to = from.AddDate(0, 0, 1)
		period = date
	} else {
		render.Render(w, r, ErrInvalidRequest(errors.New("missing required parameter: either month (YYYY-MM) or date (YYYY-MM-DD)")))
		return
	}
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("invalid period %q", period)))
		return
	}

	restaurants, err := a.Store.Restaurant().CreatedBetween(from, to)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}

	// owner phones, cached per report
	phones := make(map[string]string)
	ownerPhone := func(ownerID string) string {
		if phone, ok := phones[ownerID]; ok {
			return phone
		}
		phone := ""
		if owner, err := a.Store.Owner().Get(ownerID); err == nil {
			phone = owner.Phone
		}
		phones[ownerID] = phone
		return phone
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"restaurants-report-%s.csv\"", url.QueryEscape(period)))

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{"CreatedAt", "ID", "Name", "Address", "Phone", "OwnerPhone", "MenuItems"}
	if err := csvWriter.Write(header); err != nil {
		log.Errorf("Error writing CSV header: %v", err)
		render.Render(w, r, ErrServer(err))
		return
	}

	for _, restaurant := range *restaurants {
		record := []string{
			restaurant.CreatedAt.Format(time.RFC3339),
			strconv.FormatUint(uint64(restaurant.ID), 10),
			restaurant.Name,
			restaurant.Address,
			restaurant.Phone,
			ownerPhone(restaurant.OwnerID),
			strconv.Itoa(len(restaurant.MenuItems)),
		}
		if err := csvWriter.Write(record); err != nil {
			log.Errorf("Error writing CSV record: %v", err)
			return
		}
	}
}
