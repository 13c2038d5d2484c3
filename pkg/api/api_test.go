package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/conf"
	"github.com/gastrocatalogo/gastro-server/pkg/otp"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// Server context
type Server struct {
	Config *conf.Config
	stor.Store
	Router *chi.Mux
}

// s is the server variable shared by all tests
var s Server

const testPasscode = "123456"

// RestaurantTest data model
type RestaurantTest struct {
	ID          uint           `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Address     string         `json:"address,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Schedule    string         `json:"schedule,omitempty"`
	Coords      string         `json:"coords,omitempty"`
	OwnerID     string         `json:"owner_id,omitempty"`
	Menu        []MenuItemTest `json:"menu,omitempty"`
	MapURL      string         `json:"map_url,omitempty"`
}

// MenuItemTest data model
type MenuItemTest struct {
	ID           uint    `json:"id,omitempty"`
	RestaurantID uint    `json:"restaurant_id,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
}

// fakeIdentity accepts the token "valid-token" only
type fakeIdentity struct{}

func (fakeIdentity) VerifyIDToken(ctx context.Context, idToken string) (*otp.PhoneIdentity, error) {
	if idToken != "valid-token" {
		return nil, otp.ErrNoPhoneClaim
	}
	return &otp.PhoneIdentity{UID: "fb-uid-42", Phone: "+525500004242"}, nil
}

// ---
// Utilities
// ---
func setConfig() *conf.Config {

	c := conf.Config{
		Dsn: "sqlite3://file::memory:",
		Access: conf.Access{
			Username: "admin",
			Password: "password",
		},
		JWT: conf.JWT{
			SecretKey: "test-secret",
			TTL:       time.Hour,
		},
		OTP: conf.OTP{
			Provider:       conf.ProviderLog,
			Length:         6,
			TTL:            5 * time.Minute,
			MaxAttempts:    3,
			ResendInterval: time.Minute,
			Burst:          5,
			DefaultCountry: "+52",
			FixedCode:      testPasscode,
		},
		Maps: conf.Maps{
			LinkTemplate: "https://www.google.com/maps/search/?api=1{&query}",
		},
		Dashboard: conf.Dashboard{
			TopOwners: 5,
		},
	}
	return &c
}

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

// newRequest returns a json request, authenticated by a bearer token when the token is not empty.
func newRequest(t *testing.T, method, url string, payload interface{}, token string) *http.Request {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func checkResponseCode(t *testing.T, expected int, response *httptest.ResponseRecorder) bool {
	ok := true
	if expected != response.Code {
		t.Errorf("Expected response code %d. Got %d\n", expected, response.Code)
		t.Log(response.Body.String())
		ok = false
	}
	return ok
}

func decode(t *testing.T, response *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(response.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode %q: %v", response.Body.String(), err)
	}
}

// ownerToken returns a token for the owner of a phone number, created if needed.
func ownerToken(t *testing.T, phone string) (string, string) {
	owner, err := s.Store.Owner().FindOrCreate(phone)
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := auth.IssueToken(s.Config.JWT.SecretKey, owner.UUID, owner.Phone, auth.RoleOwner, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token, owner.UUID
}

// ---
// Main Test
// ---

func TestMain(m *testing.M) {

	s.Config = setConfig()

	// Setup the database
	var err error
	s.Store, err = stor.Init(s.Config.Dsn)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}

	// Passcodes are logged, identity tokens are checked by a fake verifier
	o := otp.NewService(s.Config.OTP, s.Store, otp.LogSender{}).WithIdentityVerifier(fakeIdentity{})

	// Set a context for handlers
	a := NewAPICtrl(s.Config, s.Store, o)

	// Define the router
	r := chi.NewRouter()

	s.Router = r

	r.Use(middleware.RequestID)
	r.Use(middleware.URLFormat)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Route("/api", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/otp", a.RequestPasscode)
				r.Post("/otp/verify", a.VerifyPasscode)
				r.Post("/firebase", a.FirebaseLogin)
			})

			r.Route("/restaurants", func(r chi.Router) {
				r.With(Paginate).Get("/", a.ListRestaurants)
				r.With(Paginate).Get("/search", a.SearchRestaurants)
				r.Get("/{restaurantID}", a.GetRestaurant)
				r.Get("/{restaurantID}/menu", a.ListMenu)

				r.Group(func(r chi.Router) {
					r.Use(auth.Middleware(s.Config.JWT.SecretKey, auth.RoleOwner, auth.RoleAdmin))
					r.Post("/", a.CreateRestaurant)
					r.Put("/{restaurantID}", a.UpdateRestaurant)
					r.Delete("/{restaurantID}", a.DeleteRestaurant)
					r.Post("/{restaurantID}/menu", a.CreateMenuItem)
					r.Put("/{restaurantID}/menu/{itemID}", a.UpdateMenuItem)
					r.Delete("/{restaurantID}/menu/{itemID}", a.DeleteMenuItem)
				})
			})

			r.With(auth.Middleware(s.Config.JWT.SecretKey, auth.RoleOwner)).Get("/me", a.Me)
			r.With(auth.Middleware(s.Config.JWT.SecretKey, auth.RoleOwner)).Get("/me/events", a.MyEvents)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BasicAuth("restricted", map[string]string{s.Config.Access.Username: s.Config.Access.Password}))
			r.Use(AdminContext)
			r.Get("/stats", a.GetDashboardData)
			r.Get("/report", a.ReportRestaurants)
			r.Post("/restaurants", a.ImportRestaurant)
			r.Delete("/restaurants/{restaurantID}", a.DeleteRestaurant)
			r.Get("/owners/{ownerID}/events", a.OwnerEvents)
		})
	})

	code := m.Run()
	s.Store.Close()
	os.Exit(code)
}
