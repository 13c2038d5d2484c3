// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"context"
	"net/http"
	"strconv"
)

// PaginationKey is used to store pagination parameters in the context.
type PaginationKey string

const (
	PageKey    PaginationKey = "page"
	PerPageKey PaginationKey = "per_page"
)

// Paginate middleware. The parameters are only set when a page is requested,
// lists are complete otherwise.
func Paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p := q.Get("page")
		if p == "" {
			next.ServeHTTP(w, r)
			return
		}

		// default values
		page := 1
		perPage := 20

		if val, err := strconv.Atoi(p); err == nil && val > 0 {
			page = val
		}
		if pp := q.Get("per_page"); pp != "" {
			if val, err := strconv.Atoi(pp); err == nil && val > 0 && val <= 100 {
				perPage = val
			}
		}

		ctx := context.WithValue(r.Context(), PageKey, page)
		ctx = context.WithValue(ctx, PerPageKey, perPage)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// pagination returns the page parameters set by the paginate middleware, zeros if none.
func pagination(r *http.Request) (int, int) {
	page, _ := r.Context().Value(PageKey).(int)
	perPage, _ := r.Context().Value(PerPageKey).(int)
	return page, perPage
}
