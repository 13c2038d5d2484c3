// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/api"
	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/metrics"
)

func (s *Server) setRoutes() *chi.Mux {

	// Set api controller dependencies
	a := api.NewAPICtrl(s.Config, s.Store, s.OTP)

	// Define the router
	r := chi.NewRouter()

	// Recovery middleware
	r.Use(middleware.Recoverer)

	// Heartbeat and metrics (excluded from logs)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("The Gastro Server is running!"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Group for all other routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger)
		r.Use(metrics.Middleware)

		r.NotFound(notFoundProblemDetail)

		// CORS Configuration
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.Cors.AllowedOrigins, // URLs of the web frontend
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))

		// Static resources, e.g. restaurant pictures (optional)
		if s.Config.Resources != "" {
			resourceDir := s.Config.Resources
			r.Get("/resources/*", func(w http.ResponseWriter, r *http.Request) {
				rctx := chi.RouteContext(r.Context())
				pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
				fs := http.StripPrefix(pathPrefix, http.FileServer(http.Dir(resourceDir)))
				fs.ServeHTTP(w, r)
			})
		}

		ownerAuth := auth.Middleware(s.Config.JWT.SecretKey, auth.RoleOwner, auth.RoleAdmin)

		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			r.Route("/api", func(r chi.Router) {
				// Owner authentication
				r.Route("/auth", func(r chi.Router) {
					r.Post("/otp", a.RequestPasscode)       // POST /api/auth/otp
					r.Post("/otp/verify", a.VerifyPasscode) // POST /api/auth/otp/verify
					r.Post("/firebase", a.FirebaseLogin)    // POST /api/auth/firebase
				})

				// Restaurants, public reads and owner writes
				r.Route("/restaurants", func(r chi.Router) {
					r.With(api.Paginate).Get("/", a.ListRestaurants)         // GET /api/restaurants{?page,per_page,q}
					r.With(api.Paginate).Get("/search", a.SearchRestaurants) // GET /api/restaurants/search{?q,page,per_page}
					r.With(ownerAuth).Post("/", a.CreateRestaurant)          // POST /api/restaurants

					r.Route("/{restaurantID}", func(r chi.Router) {
						r.Get("/", a.GetRestaurant)                       // GET /api/restaurants/123
						r.With(ownerAuth).Put("/", a.UpdateRestaurant)    // PUT /api/restaurants/123
						r.With(ownerAuth).Delete("/", a.DeleteRestaurant) // DELETE /api/restaurants/123

						r.Get("/menu", a.ListMenu)                                   // GET /api/restaurants/123/menu
						r.With(ownerAuth).Post("/menu", a.CreateMenuItem)            // POST /api/restaurants/123/menu
						r.With(ownerAuth).Put("/menu/{itemID}", a.UpdateMenuItem)    // PUT /api/restaurants/123/menu/4
						r.With(ownerAuth).Delete("/menu/{itemID}", a.DeleteMenuItem) // DELETE /api/restaurants/123/menu/4
					})
				})

				// Owner profile
				r.Group(func(r chi.Router) {
					r.Use(auth.Middleware(s.Config.JWT.SecretKey, auth.RoleOwner))
					r.Get("/me", a.Me)              // GET /api/me
					r.Get("/me/events", a.MyEvents) // GET /api/me/events
				})
			})
		})

		// Private Routes
		// Require Authentication, not served without credentials
		if s.Config.Access.Enabled() {
			credentials := make(map[string]string)
			credentials[s.Config.Access.Username] = s.Config.Access.Password

			r.Group(func(r chi.Router) {
				r.Use(middleware.BasicAuth("restricted", credentials))
				r.Use(api.AdminContext)
				r.Use(render.SetContentType(render.ContentTypeJSON))

				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", a.GetDashboardData)                         // GET /admin/stats
					r.Get("/report", a.ReportRestaurants)                       // GET /admin/report{?month,date}
					r.Post("/restaurants", a.ImportRestaurant)                  // POST /admin/restaurants
					r.Delete("/restaurants/{restaurantID}", a.DeleteRestaurant) // DELETE /admin/restaurants/123
					r.Get("/owners/{ownerID}/events", a.OwnerEvents)            // GET /admin/owners/abc/events
				})
			})
		} else {
			log.Warn("No admin access credentials, the admin api is disabled")
		}

		// Dashboard data
		r.Post("/dashdata/login", Login(s.Config)) // POST /dashdata/login
		// Require JWT Authentication
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.Config.JWT.SecretKey, auth.RoleAdmin))
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Route("/dashdata", func(r chi.Router) {
				r.Get("/data", a.GetDashboardData)                          // GET /dashdata/data
				r.Get("/report", a.ReportRestaurants)                       // GET /dashdata/report{?month,date}
				r.With(api.Paginate).Get("/restaurants", a.ListRestaurants) // GET /dashdata/restaurants
				r.Delete("/restaurants/{restaurantID}", a.DeleteRestaurant) // DELETE /dashdata/restaurants/123
				r.Get("/owners/{ownerID}/events", a.OwnerEvents)            // GET /dashdata/owners/abc/events
			})
		})
	})

	return r
}

// notFoundProblemDetail formats not found errors as problem details, for the sake of consistency.
func notFoundProblemDetail(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{"type": "about:blank", "title": "Endpoint not found.", "status": http.StatusNotFound}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusNotFound)

	json.NewEncoder(w).Encode(response)
}
