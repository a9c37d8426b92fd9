package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MatiBarber/PetNet/internal/config"
	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/notify"
	"github.com/MatiBarber/PetNet/internal/repo"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		APIBasePath: "/api/v1",
		JWTSecret:   "test-secret",
		RateRPS:     1000,
		RateBurst:   1000,
		OTEL:        config.OTELConfig{ServiceName: "petnet-test"},
	}

	r := gin.New()
	RegisterRoutes(r, db, notify.LogNotifier{}, cfg)
	return r, db
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "not_found" {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMutatingRoutesRequireIdentity(t *testing.T) {
	r, _ := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/requests"},
		{http.MethodPost, "/api/v1/publications"},
		{http.MethodGet, "/api/v1/requests/sent"},
		{http.MethodGet, "/api/v1/publications/mine"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", route.method, route.path, w.Code)
		}
	}
}

func TestBrowseIsPublicAndEmptyIsFriendly(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/publications/available", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "no pets are available") {
		t.Fatalf("empty marketplace message missing: %s", w.Body.String())
	}
}

func TestCreateThenBrowse(t *testing.T) {
	r, db := newTestServer(t)

	owner := &domain.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	body := `{"photo_path":"/photos/luna.jpg","pet":{"name":"Luna","species":"dog","sex":"female","size":"small"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/publications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", fmt.Sprintf("%d", owner.ID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/publications/available?type=dog", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("browse status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Luna"`) {
		t.Fatalf("listed publication missing: %s", w.Body.String())
	}

	// The detail view is public too.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/publications/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("detail status = %d body=%s", w.Code, w.Body.String())
	}
}
