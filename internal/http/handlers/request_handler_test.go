package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/http/middleware"
	"github.com/MatiBarber/PetNet/internal/services"
)

// stubRequestSvc implements RequestService with overridable behavior per
// test case.
type stubRequestSvc struct {
	submit       func(requesterID, publicationID uint, message string) (*domain.Request, error)
	cancel       func(requesterID, requestID uint) error
	changeStatus func(ownerID, requestID uint, target string) (*domain.Request, bool, error)
	listSent     func(requesterID uint) ([]domain.Request, error)
	listReceived func(ownerID uint) ([]domain.Request, error)
}

func (s *stubRequestSvc) Submit(_ context.Context, requesterID, publicationID uint, message string) (*domain.Request, error) {
	return s.submit(requesterID, publicationID, message)
}

func (s *stubRequestSvc) Cancel(_ context.Context, requesterID, requestID uint) error {
	return s.cancel(requesterID, requestID)
}

func (s *stubRequestSvc) ChangeStatus(_ context.Context, ownerID, requestID uint, target string) (*domain.Request, bool, error) {
	return s.changeStatus(ownerID, requestID, target)
}

func (s *stubRequestSvc) ListSent(_ context.Context, requesterID uint) ([]domain.Request, error) {
	return s.listSent(requesterID)
}

func (s *stubRequestSvc) ListReceived(_ context.Context, ownerID uint) ([]domain.Request, error) {
	return s.listReceived(ownerID)
}

// newRig mounts the handlers on a bare engine. A non-zero uid simulates
// the identity the auth middleware would have resolved.
func newRig(uid uint, pubSvc PublicationService, reqSvc RequestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if uid != 0 {
		r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserIDKey, uid) })
	}
	h := New(pubSvc, reqSvc)
	r.POST("/requests", h.SubmitRequest)
	r.DELETE("/requests/:id", h.CancelRequest)
	r.PATCH("/requests/:id/status", h.UpdateRequestStatus)
	r.GET("/requests/sent", h.ListSentRequests)
	r.GET("/requests/received", h.ListReceivedRequests)
	r.POST("/publications", h.CreatePublication)
	r.PUT("/publications/:id", h.UpdatePublication)
	r.DELETE("/publications/:id", h.DeletePublication)
	r.GET("/publications/available", h.ListAvailablePublications)
	r.GET("/publications/mine", h.ListMyPublications)
	r.GET("/publications/:id", h.GetPublication)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestSubmitRequest_Created(t *testing.T) {
	svc := &stubRequestSvc{
		submit: func(requesterID, publicationID uint, message string) (*domain.Request, error) {
			if requesterID != 7 || publicationID != 3 || message != "please" {
				t.Fatalf("unexpected args: %d %d %q", requesterID, publicationID, message)
			}
			return &domain.Request{ID: 1, RequesterID: requesterID, PublicationID: publicationID, Message: message, Status: domain.RequestPending}, nil
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodPost, "/requests", `{"publication_id":3,"message":"please"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"pending"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSubmitRequest_BadPayload(t *testing.T) {
	r := newRig(7, nil, &stubRequestSvc{})

	w := doJSON(t, r, http.MethodPost, "/requests", `{"message":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestSubmitRequest_Anonymous(t *testing.T) {
	r := newRig(0, nil, &stubRequestSvc{})

	w := doJSON(t, r, http.MethodPost, "/requests", `{"publication_id":3,"message":"hi"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != ErrCodeUnauthorized {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestSubmitRequest_ServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", services.ErrPublicationNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"unavailable", services.ErrPublicationUnavailable, http.StatusConflict, ErrCodeConflict},
		{"own listing", services.ErrOwnPublication, http.StatusConflict, ErrCodeConflict},
		{"duplicate", services.ErrDuplicateRequest, http.StatusConflict, ErrCodeConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRequestSvc{
				submit: func(_, _ uint, _ string) (*domain.Request, error) { return nil, tc.err },
			}
			r := newRig(7, nil, svc)

			w := doJSON(t, r, http.MethodPost, "/requests", `{"publication_id":3,"message":"hi"}`)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if resp := decodeError(t, w); resp.Code != tc.code {
				t.Fatalf("code = %q, want %q", resp.Code, tc.code)
			}
		})
	}
}

func TestCancelRequest(t *testing.T) {
	svc := &stubRequestSvc{
		cancel: func(requesterID, requestID uint) error {
			if requesterID != 7 || requestID != 12 {
				t.Fatalf("unexpected args: %d %d", requesterID, requestID)
			}
			return nil
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodDelete, "/requests/12", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cancelled") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCancelRequest_Forbidden(t *testing.T) {
	svc := &stubRequestSvc{
		cancel: func(_, _ uint) error { return services.ErrNotRequester },
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodDelete, "/requests/12", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != ErrCodeForbidden {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestCancelRequest_BadID(t *testing.T) {
	r := newRig(7, nil, &stubRequestSvc{})

	w := doJSON(t, r, http.MethodDelete, "/requests/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUpdateRequestStatus_Notified(t *testing.T) {
	svc := &stubRequestSvc{
		changeStatus: func(ownerID, requestID uint, target string) (*domain.Request, bool, error) {
			if ownerID != 7 || requestID != 12 || target != "approved" {
				t.Fatalf("unexpected args: %d %d %q", ownerID, requestID, target)
			}
			return &domain.Request{ID: requestID, Status: domain.RequestApproved}, true, nil
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodPatch, "/requests/12/status", `{"status":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var resp ChangeStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Notified || !strings.Contains(resp.Message, "notified") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestUpdateRequestStatus_NotNotified(t *testing.T) {
	svc := &stubRequestSvc{
		changeStatus: func(_, requestID uint, _ string) (*domain.Request, bool, error) {
			return &domain.Request{ID: requestID, Status: domain.RequestRejected}, false, nil
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodPatch, "/requests/12/status", `{"status":"rejected"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp ChangeStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Notified || strings.Contains(resp.Message, "notified") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestUpdateRequestStatus_TerminalConflict(t *testing.T) {
	svc := &stubRequestSvc{
		changeStatus: func(_, _ uint, _ string) (*domain.Request, bool, error) {
			return nil, false, services.ErrRequestApproved
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodPatch, "/requests/12/status", `{"status":"pending"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != ErrCodeConflict {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestUpdateRequestStatus_MissingBody(t *testing.T) {
	r := newRig(7, nil, &stubRequestSvc{})

	w := doJSON(t, r, http.MethodPatch, "/requests/12/status", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListSentRequests_OmitsRequesterContact(t *testing.T) {
	pet := &domain.Pet{ID: 2, Name: "luna", Species: "dog", Sex: "female", Size: "small"}
	svc := &stubRequestSvc{
		listSent: func(requesterID uint) ([]domain.Request, error) {
			return []domain.Request{{
				ID:            1,
				RequesterID:   requesterID,
				PublicationID: 3,
				Message:       "hi",
				Status:        domain.RequestPending,
				Requester:     domain.User{ID: requesterID, Name: "Ana", Email: "ana@example.com"},
				Publication:   domain.Publication{ID: 3, Pet: pet},
			}}, nil
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodGet, "/requests/sent", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "ana@example.com") {
		t.Fatalf("sent view must not expose contact info: %s", body)
	}
	if !strings.Contains(body, `"luna"`) {
		t.Fatalf("pet missing: %s", body)
	}
}

func TestListReceivedRequests_IncludesRequesterContact(t *testing.T) {
	svc := &stubRequestSvc{
		listReceived: func(uint) ([]domain.Request, error) {
			return []domain.Request{{
				ID:            1,
				RequesterID:   9,
				PublicationID: 3,
				Message:       "hi",
				Status:        domain.RequestPending,
				Requester:     domain.User{ID: 9, Name: "Ana", Email: "ana@example.com"},
			}}, nil
		},
	}
	r := newRig(7, nil, svc)

	w := doJSON(t, r, http.MethodGet, "/requests/received", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ana@example.com") {
		t.Fatalf("owner view must expose requester contact: %s", w.Body.String())
	}
}
