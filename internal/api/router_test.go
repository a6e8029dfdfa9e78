package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openlis/lis-backend/internal/core/service"
	"github.com/openlis/lis-backend/internal/infrastructure/db/relational"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	return newTestServerWith(t, Options{CORSAllowedOrigins: []string{"*"}})
}

func newTestServerWith(t *testing.T, opts Options) *echo.Echo {
	t.Helper()
	store, err := relational.OpenMemory(context.Background(), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	log := zerolog.Nop()

	auth := service.NewAuthService(
		store,
		service.NewBcryptHasher(bcrypt.MinCost),
		service.NewJWTIssuer("e2e-secret"),
		service.AuthConfig{},
		log,
	)
	return NewRouter(Services{
		Auth:     auth,
		Gate:     service.NewAccessGate(),
		Patients: service.NewPatientService(store, log),
		Orders:   service.NewOrderService(store, log),
		Results:  service.NewResultService(store, log),
		Store:    store,
	}, opts, log)
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password, role string) string {
	t.Helper()
	reg := do(e, http.MethodPost, "/auth/register",
		`{"username":"`+username+`","password":"`+password+`","role":"`+role+`"}`, "")
	if reg.Code != http.StatusOK {
		t.Fatalf("register %s: %d %s", username, reg.Code, reg.Body.String())
	}

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("token %s: %d %s", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid token json: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected token response: %+v", resp)
	}
	return resp.AccessToken
}

func decodeID(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return body.ID
}

func TestRouter_LabWorkflow(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "tech1", "tech123", "technician")

	rec := do(e, http.MethodPost, "/patients/", `{"first_name":"Jane","last_name":"Smith","dob":"1990-01-15"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create patient: %d %s", rec.Code, rec.Body.String())
	}
	patientID := decodeID(t, rec)

	rec = do(e, http.MethodGet, "/patients/", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"first_name":"Jane"`) {
		t.Fatalf("list patients: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/orders/", `{"patient_id":`+itoa(patientID)+`,"test_name":"Blood Test (CBC)"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create order: %d %s", rec.Code, rec.Body.String())
	}
	orderID := decodeID(t, rec)

	rec = do(e, http.MethodPost, "/results/", `{"order_id":`+itoa(orderID)+`,"value":"Normal"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create result: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/results/?order_id="+itoa(orderID), "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"value":"Normal"`) {
		t.Fatalf("list results: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/orders", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list orders without trailing slash: %d", rec.Code)
	}
}

func TestRouter_MutationWithoutTokenIs401(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/patients/", `{"first_name":"Jane","last_name":"Smith"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("expected Bearer challenge, got %q", rec.Header().Get(echo.HeaderWWWAuthenticate))
	}

	rec = do(e, http.MethodPost, "/patients/", `{"first_name":"Jane","last_name":"Smith"}`, "forged.token.value")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/patients/", "", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("nothing should have been created: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DoctorIsForbidden(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "doctor1", "doc123", "doctor")

	rec := do(e, http.MethodPost, "/patients/", `{"first_name":"Jane","last_name":"Smith"}`, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/auth/me", "", token)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"role":"doctor"`) {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ErrorStatuses(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin", "admin123", "admin")

	for _, target := range []string{"/patients/999", "/patients/0", "/patients/-1", "/orders/0", "/results/-7"} {
		if rec := do(e, http.MethodGet, target, "", ""); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rec.Code)
		}
	}
	if rec := do(e, http.MethodGet, "/patients/abc", "", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad id, got %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/patients/", `{"first_name":"","last_name":"Doe"}`, token); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty name, got %d", rec.Code)
	}

	rec := do(e, http.MethodPost, "/orders/", `{"patient_id":999,"test_name":"CBC"}`, token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown patient, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}

	dup := do(e, http.MethodPost, "/auth/register", `{"username":"admin","password":"x"}`, "")
	if dup.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", dup.Code)
	}
}

func TestRouter_BadCredentials(t *testing.T) {
	e := newTestServer(t)
	login(t, e, "tech2", "tech123", "")

	form := url.Values{"username": {"tech2"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("expected Bearer challenge")
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(t)
	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d", rec.Code)
	}
}

func TestRouter_MetricsAndSwagger(t *testing.T) {
	// Two routers in one process, each with its own registry.
	for range 2 {
		e := newTestServerWith(t, Options{
			MetricsEnabled:  true,
			SwaggerEnabled:  true,
			MetricsRegistry: prometheus.NewRegistry(),
		})

		login(t, e, "metrics-user", "secret", "technician")
		if rec := do(e, http.MethodGet, "/patients", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("list patients: %d", rec.Code)
		}

		rec := do(e, http.MethodGet, "/metrics", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("metrics: expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, name := range []string{"lis_requests_total", "lis_logins_total"} {
			if !strings.Contains(body, name) {
				t.Fatalf("metrics output missing %s", name)
			}
		}

		rec = do(e, http.MethodGet, "/swagger/index.html", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("swagger: expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "swagger") {
			t.Fatalf("swagger: unexpected body")
		}
	}
}

func TestRouter_MetricsDisabledByDefault(t *testing.T) {
	e := newTestServer(t)
	if rec := do(e, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", rec.Code)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
