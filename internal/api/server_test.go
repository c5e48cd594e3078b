package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"statusboard/internal/auth"
	"statusboard/internal/board"
	"statusboard/internal/config"
	"statusboard/internal/user"
)

const (
	testIssuer = "statusboard-test"
	testKey    = "test-signing-key"
)

// memUserStore keeps accounts in a slice; enough for handler tests.
type memUserStore struct {
	accounts []user.Account
}

func (m *memUserStore) FindByEmail(ctx context.Context, email string) (*user.Account, error) {
	for i := range m.accounts {
		if m.accounts[i].Email == email {
			a := m.accounts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) FindByNetID(ctx context.Context, netid string) (*user.Account, error) {
	for i := range m.accounts {
		if m.accounts[i].NetID == netid {
			a := m.accounts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) Insert(ctx context.Context, a user.Account) (user.Account, error) {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	m.accounts = append(m.accounts, a)
	return a, nil
}

func (m *memUserStore) Update(ctx context.Context, netid string, fields map[string]any) (bool, error) {
	for i := range m.accounts {
		if m.accounts[i].NetID != netid {
			continue
		}
		if v, ok := fields["display_name"].(string); ok {
			m.accounts[i].DisplayName = v
		}
		if v, ok := fields["password_hash"].(string); ok {
			m.accounts[i].PasswordHash = v
		}
		return true, nil
	}
	return false, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *board.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.App{
		JWTIssuer:      testIssuer,
		JWTSigningKey:  testKey,
		TokenTTL:       time.Hour,
		SessionTTL:     time.Hour,
		EmailDomain:    "@nyu.edu",
		MinPasswordLen: 8,
	}
	store := board.NewMemStore()
	users := user.NewService(&memUserStore{}, cfg.EmailDomain, cfg.MinPasswordLen)
	srv := New(cfg, board.NewService(store, nil), users, nil, nil, nil, nil)

	r := gin.New()
	r.Use(auth.Authenticate(nil, cfg.JWTSigningKey, cfg.JWTIssuer, nil))
	srv.Register(r)
	return r, store
}

func bearerFor(t *testing.T, p auth.Principal) string {
	t.Helper()
	token, _, err := auth.Issue(p, testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func userToken(t *testing.T) string {
	return bearerFor(t, auth.Principal{ID: "u1", Email: "ab1234@nyu.edu", NetID: "ab1234", Name: "Alice B"})
}

func adminToken(t *testing.T) string {
	return bearerFor(t, auth.Principal{ID: "a1", Email: "admin1@nyu.edu", NetID: "admin1", Admin: true})
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestListPrintersEmptyIsArray(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/printers", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSubmitReportRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/reports", "", map[string]any{"printer_id": "x", "status": "available"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication required", decodeBody(t, w)["error"])
}

func TestSubmitReportIgnoresClientAttribution(t *testing.T) {
	r, store := newTestRouter(t)
	p, err := store.InsertPrinter(context.Background(), board.Printer{Name: "Bobst 1F", Location: "Bobst Library"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/reports", userToken(t), map[string]any{
		"printer_id":  p.ID.Hex(),
		"status":      "out_of_paper",
		"paper_level": 5,
		"reported_by": "mallory",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Alice B", body["reported_by"])
	assert.Equal(t, "ab1234@nyu.edu", body["reporter_email"])
	assert.Equal(t, float64(5), body["paper_level"])
}

func TestSubmitReportUnknownPrinter(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/reports", userToken(t), map[string]any{
		"printer_id": primitive.NewObjectID().Hex(),
		"status":     "available",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Printer not found", decodeBody(t, w)["error"])
}

func TestCreatePrinterValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/printers", userToken(t), map[string]any{"name": "Lonely Printer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name and location are required", decodeBody(t, w)["error"])
}

func TestPrinterAdminGate(t *testing.T) {
	r, store := newTestRouter(t)
	p, err := store.InsertPrinter(context.Background(), board.Printer{Name: "Bobst 1F", Location: "Bobst Library"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodDelete, "/api/printers/"+p.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/printers/"+p.ID.Hex(), userToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "admin access required", decodeBody(t, w)["error"])
}

func TestDeletePrinterTwice(t *testing.T) {
	r, store := newTestRouter(t)
	p, err := store.InsertPrinter(context.Background(), board.Printer{Name: "Bobst 1F", Location: "Bobst Library"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodDelete, "/api/printers/"+p.ID.Hex(), adminToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Printer deleted successfully", decodeBody(t, w)["message"])

	w = doJSON(t, r, http.MethodDelete, "/api/printers/"+p.ID.Hex(), adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Printer not found", decodeBody(t, w)["error"])
}

func TestUpdatePrinterNoValidFields(t *testing.T) {
	r, store := newTestRouter(t)
	p, err := store.InsertPrinter(context.Background(), board.Printer{Name: "Bobst 1F", Location: "Bobst Library"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, "/api/printers/"+p.ID.Hex(), adminToken(t), map[string]any{"nickname": "ignored"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no valid fields to update", decodeBody(t, w)["error"])
}

func TestSubmitReviewRejectsNonIntegerRatings(t *testing.T) {
	r, store := newTestRouter(t)
	sp, err := store.InsertSpace(context.Background(), board.Space{Name: "Quiet Zone", Building: "Bobst Library"})
	require.NoError(t, err)

	for _, rating := range []any{0, 6, "bad", 4.5} {
		w := doJSON(t, r, http.MethodPost, "/api/reviews", userToken(t), map[string]any{
			"space_id": sp.ID.Hex(), "rating": rating, "silence": 3, "crowdedness": 3,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "rating must be an integer between 1 and 5", decodeBody(t, w)["error"], "rating %v", rating)
	}
}

func TestSubmitReviewAndVote(t *testing.T) {
	r, store := newTestRouter(t)
	sp, err := store.InsertSpace(context.Background(), board.Space{Name: "Quiet Zone", Building: "Bobst Library"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/reviews", userToken(t), map[string]any{
		"space_id": sp.ID.Hex(), "rating": 4, "silence": 5, "crowdedness": 2, "comments": "great spot",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID, _ := decodeBody(t, w)["_id"].(string)
	require.NotEmpty(t, reviewID)

	w = doJSON(t, r, http.MethodPost, "/api/reviews/"+reviewID+"/vote", userToken(t), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "helpful is required", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/reviews/"+reviewID+"/vote", userToken(t), map[string]any{"helpful": true})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/reviews?space_id="+sp.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, float64(1), views[0]["helpful_votes"])
}

func TestRequestLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/requests", userToken(t), map[string]any{
		"name": "New Lounge", "building": "Kimmel Center",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "ab1234", body["requested_by"])
	reqID, _ := body["_id"].(string)
	require.NotEmpty(t, reqID)

	// Non-admins cannot see or decide the queue.
	w = doJSON(t, r, http.MethodGet, "/api/requests", userToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/requests/"+reqID+"/approve", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The approved request materialized a space.
	w = doJSON(t, r, http.MethodGet, "/api/spaces", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var spaces []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spaces))
	require.Len(t, spaces, 1)
	assert.Equal(t, "New Lounge", spaces[0]["name"])

	w = doJSON(t, r, http.MethodPost, "/api/requests/"+reqID+"/approve", adminToken(t), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "request already decided", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/requests/"+reqID+"/reject", adminToken(t), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidationAndSuccess(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/register", "", map[string]any{
		"email": "ab1234@gmail.com", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must end with @nyu.edu", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/register", "", map[string]any{
		"email": "AB1234@nyu.edu", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "ab1234@nyu.edu", body["email"])
	assert.Equal(t, "ab1234", body["netid"])
	assert.NotContains(t, body, "password_hash")

	w = doJSON(t, r, http.MethodPost, "/api/register", "", map[string]any{
		"email": "ab1234@nyu.edu", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already registered", decodeBody(t, w)["error"])
}

func TestCurrentUser(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/user", userToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ab1234", body["netid"])
	assert.Equal(t, "ab1234@nyu.edu", body["email"])
}

func TestHealthUnhealthyWithoutDatabase(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, w)["status"])
}
