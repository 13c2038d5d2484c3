package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastrocatalogo/gastro-server/pkg/conf"
)

func newTestServer(t *testing.T) *Server {
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test change the configuration before the server is initialized
func newTestServerWith(t *testing.T, configure func(c *conf.Config)) *Server {
	c := &conf.Config{
		Dsn: "sqlite3://file:" + t.Name() + "?mode=memory",
		Access: conf.Access{
			Username: "admin",
			Password: "password",
		},
		JWT: conf.JWT{
			SecretKey: "router-secret",
			TTL:       time.Hour,
			Admin:     map[string]string{"ana": "s3cret"},
		},
		OTP: conf.OTP{
			Provider:       conf.ProviderLog,
			Length:         6,
			TTL:            time.Minute,
			MaxAttempts:    3,
			ResendInterval: time.Minute,
			Burst:          3,
			DefaultCountry: "+52",
		},
		Dashboard: conf.Dashboard{TopOwners: 5},
	}
	if configure != nil {
		configure(c)
	}
	s := &Server{Config: c}
	require.NoError(t, s.initialize(context.Background()))
	t.Cleanup(func() { s.Store.Close() })
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)

	rr := serve(s, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(s, httptest.NewRequest("GET", "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = serve(s, httptest.NewRequest("GET", "/api/restaurants", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))

	// the request above is counted
	rr = serve(s, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "gastro_http_requests_total")
}

func TestDashboardLogin(t *testing.T) {
	s := newTestServer(t)

	login := func(user, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(Credentials{Username: user, Password: password})
		return serve(s, httptest.NewRequest("POST", "/dashdata/login", bytes.NewReader(body)))
	}

	rr := login("ana", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = login("ana", "s3cret")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	req := httptest.NewRequest("GET", "/dashdata/data", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rr = serve(s, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "totalRestaurants")

	// an admin token is not an owner token
	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rr = serve(s, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve(s, httptest.NewRequest("GET", "/dashdata/data", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminBasicAuth(t *testing.T) {
	s := newTestServer(t)

	rr := serve(s, httptest.NewRequest("GET", "/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	req.SetBasicAuth("admin", "password")
	rr = serve(s, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminDisabledWithoutAccess(t *testing.T) {
	s := newTestServerWith(t, func(c *conf.Config) {
		c.Access = conf.Access{}
	})

	body := strings.NewReader(`{"name": "Fonda sin dueño", "owner_phone": "5512345678"}`)
	req := httptest.NewRequest("POST", "/admin/restaurants", body)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("", "")
	rr := serve(s, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req = httptest.NewRequest("GET", "/admin/stats", nil)
	req.SetBasicAuth("", "")
	rr = serve(s, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// nothing was imported
	rr = serve(s, httptest.NewRequest("GET", "/api/restaurants", nil))
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))

	// the dashboard login refuses empty credentials
	login, _ := json.Marshal(Credentials{})
	rr = serve(s, httptest.NewRequest("POST", "/dashdata/login", bytes.NewReader(login)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
