package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cove-house/waitlist-service/internal/api/http/handlers"
	"github.com/cove-house/waitlist-service/internal/auth"
	"github.com/cove-house/waitlist-service/internal/config"
	"github.com/cove-house/waitlist-service/internal/domain"
	"github.com/cove-house/waitlist-service/internal/events"
	"github.com/cove-house/waitlist-service/internal/observability"
	"github.com/cove-house/waitlist-service/internal/ratelimit"
	"github.com/cove-house/waitlist-service/internal/referral"
	"github.com/cove-house/waitlist-service/internal/service"
)

const testAdminKey = "api-test-admin-key"

type memEntryRepo struct {
	mu      sync.Mutex
	entries map[string]*domain.WaitlistEntry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: make(map[string]*domain.WaitlistEntry)}
}

func (r *memEntryRepo) Insert(ctx context.Context, entry *domain.WaitlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	stored := *entry
	r.entries[entry.ID] = &stored
	return nil
}

func (r *memEntryRepo) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.Kind != kind {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *memEntryRepo) Approve(ctx context.Context, kind domain.Kind, id string, approvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.Kind != kind || entry.ApprovalStatus != domain.ApprovalStatusPending {
		return false, nil
	}
	entry.ApprovalStatus = domain.ApprovalStatusApproved
	at := approvedAt
	entry.ApprovedAt = &at
	return true, nil
}

func (r *memEntryRepo) ListByKind(ctx context.Context, kind domain.Kind) ([]domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WaitlistEntry
	for _, entry := range r.entries {
		if entry.Kind == kind {
			out = append(out, *entry)
		}
	}
	return out, nil
}

type memPainPointRepo struct {
	mu     sync.Mutex
	points []domain.PainPoint
}

func (r *memPainPointRepo) Insert(ctx context.Context, point *domain.PainPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	point.ID = uuid.NewString()
	point.CreatedAt = time.Now().UTC()
	r.points = append(r.points, *point)
	return nil
}

type memEventRepo struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

func (r *memEventRepo) Append(ctx context.Context, event domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type stubMailer struct {
	mu      sync.Mutex
	sendErr error
	sent    int
}

func (m *stubMailer) SendConfirmation(ctx context.Context, kind domain.Kind, to string, cities []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent++
	return nil
}

func (m *stubMailer) SendApproval(ctx context.Context, kind domain.Kind, to string, name *string, referralLink string, cities []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent++
	return nil
}

type apiHarness struct {
	app        *fiber.App
	repo       *memEntryRepo
	painPoints *memPainPointRepo
	mailer     *stubMailer
	events     *memEventRepo
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	logger := zap.NewNop()

	repo := newMemEntryRepo()
	painPointRepo := &memPainPointRepo{}
	eventRepo := &memEventRepo{}
	mailer := &stubMailer{}

	issuer, err := referral.NewIssuer("https://cove.house")
	require.NoError(t, err)

	verifier := auth.NewAdminVerifier(config.AdminConfig{Key: testAdminKey})
	tokens := auth.NewTokenManager("api-test-session-secret", 30)

	svc := service.NewWaitlistService(service.WaitlistDependencies{
		EntryRepo:     repo,
		PainPointRepo: painPointRepo,
		Recorder:      events.NewRecorder(eventRepo, logger),
		Mailer:        mailer,
		Referral:      issuer,
		Admin:         verifier,
		Logger:        logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)

	waitlistHandler := handlers.NewWaitlistHandler(svc)
	painPointHandler := handlers.NewPainPointHandler(svc)
	adminHandler := handlers.NewAdminHandler(svc, verifier, tokens)
	analyticsHandler := handlers.NewAnalyticsHandler(svc)

	limiter := ratelimit.NewLimiter(nil, config.RateLimitConfig{}, logger)
	adminMiddleware := auth.NewAdminMiddleware(verifier, tokens)

	waitlist := app.Group("/waitlist")
	waitlist.Post("/demand", limiter.Handle, waitlistHandler.SubmitDemand)
	waitlist.Post("/supply", limiter.Handle, waitlistHandler.SubmitSupply)
	waitlist.Post("/demand/approve", waitlistHandler.ApproveDemand)
	waitlist.Post("/supply/approve", waitlistHandler.ApproveSupply)

	admin := app.Group("/admin")
	admin.Post("/login", adminHandler.Login)
	admin.Get("/waitlist", adminMiddleware.Handle, adminHandler.ListDemand)
	admin.Get("/supply-waitlist", adminMiddleware.Handle, adminHandler.ListSupply)

	app.Post("/pain-points", limiter.Handle, painPointHandler.Submit)
	app.Post("/analytics", analyticsHandler.Record)

	return &apiHarness{app: app, repo: repo, painPoints: painPointRepo, mailer: mailer, events: eventRepo}
}

func (h *apiHarness) do(t *testing.T, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp.StatusCode, parsed
}

func demandBody() map[string]any {
	return map[string]any{
		"email":               "alex@example.com",
		"status":              "confirmed",
		"target_cities":       []string{"NYC"},
		"move_in_month":       "September",
		"housing_search_type": "solo",
		"budget":              "$1500",
		"concerns":            []string{"Scams"},
		"contact_pref":        []string{"email"},
	}
}

func supplyBody() map[string]any {
	return map[string]any{
		"email":             "a@x.com",
		"city":              "Boston",
		"concerns":          []string{"Finding roommates"},
		"contact_pref":      []string{"email"},
		"willing_to_verify": true,
	}
}

func (h *apiHarness) submitDemand(t *testing.T) string {
	t.Helper()
	status, body := h.do(t, http.MethodPost, "/waitlist/demand", demandBody(), nil)
	require.Equal(t, http.StatusOK, status)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestSubmitDemand_OK(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand", demandBody(), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["id"])
}

func TestSubmitDemand_ValidationErrorShape(t *testing.T) {
	h := newAPIHarness(t)

	payload := demandBody()
	payload["email"] = "not-an-email"
	delete(payload, "concerns")

	status, body := h.do(t, http.MethodPost, "/waitlist/demand", payload, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	fields, ok := body["error"].(map[string]any)
	require.True(t, ok, "validation errors are a field-keyed map, got %v", body["error"])
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "concerns")
}

func TestSubmitDemand_MalformedJSON(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/waitlist/demand", bytes.NewReader([]byte("{not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitSupply_OK(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/supply", supplyBody(), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["id"])
}

func TestApprove_OK(t *testing.T) {
	h := newAPIHarness(t)
	id := h.submitDemand(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", map[string]any{
		"waitlist_id": id,
		"admin_key":   testAdminKey,
	}, nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, fmt.Sprintf("https://cove.house/waitlist/demand?r=%s", id), body["referralLink"])
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, body, "warning")
}

func TestApprove_WrongKey(t *testing.T) {
	h := newAPIHarness(t)
	id := h.submitDemand(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", map[string]any{
		"waitlist_id": id,
		"admin_key":   "nope",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestApprove_UnknownID(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", map[string]any{
		"waitlist_id": uuid.NewString(),
		"admin_key":   testAdminKey,
	}, nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Waitlist entry not found", body["error"])
}

func TestApprove_SecondAttempt(t *testing.T) {
	h := newAPIHarness(t)
	id := h.submitDemand(t)

	payload := map[string]any{"waitlist_id": id, "admin_key": testAdminKey}
	status, _ := h.do(t, http.MethodPost, "/waitlist/demand/approve", payload, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", payload, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Already approved", body["error"])
}

func TestApprove_MissingID(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", map[string]any{
		"admin_key": testAdminKey,
	}, nil)

	assert.Equal(t, http.StatusBadRequest, status)
	fields, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "waitlist_id")
}

func TestApprove_EmailFailureReturnsWarning(t *testing.T) {
	h := newAPIHarness(t)
	id := h.submitDemand(t)
	h.mailer.sendErr = errors.New("transport down")

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", map[string]any{
		"waitlist_id": id,
		"admin_key":   testAdminKey,
	}, nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["warning"])
	assert.NotContains(t, body, "message")
}

func TestApprove_MalformedID(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/waitlist/demand/approve", map[string]any{
		"waitlist_id": "not-a-uuid",
		"admin_key":   testAdminKey,
	}, nil)

	assert.Equal(t, http.StatusBadRequest, status)
	fields, ok := body["error"].(map[string]any)
	require.True(t, ok, "malformed id is a client fault, got %v", body["error"])
	assert.Contains(t, fields, "waitlist_id")
}

func TestSubmitPainPoint_OK(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/pain-points", map[string]any{
		"name":           "Alex",
		"story":          "Spent three months dodging sublet scams in Boston.",
		"can_reach_out":  true,
		"contact_method": "email",
		"contact_info":   "alex@example.com",
	}, nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["id"])
	require.Len(t, h.painPoints.points, 1)

	h.events.mu.Lock()
	defer h.events.mu.Unlock()
	require.Len(t, h.events.events, 1)
	assert.Equal(t, domain.EventPainPointSubmitted, h.events.events[0].EventType)
}

func TestSubmitPainPoint_ValidationErrorShape(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/pain-points", map[string]any{
		"name":  "A",
		"story": "too short",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, status)
	fields, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "story")
	assert.Empty(t, h.painPoints.points)
}

func TestAnalytics_OK(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/analytics", map[string]any{
		"event_type": "page_view",
		"payload":    map[string]any{"path": "/waitlist"},
	}, nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Len(t, h.events.events, 1)
}

func TestAnalytics_MissingEventType(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/analytics", map[string]any{
		"payload": map[string]any{"path": "/waitlist"},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, status)
	fields, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "event_type")
}

func TestAdminList_RequiresCredential(t *testing.T) {
	h := newAPIHarness(t)
	h.submitDemand(t)

	status, body := h.do(t, http.MethodGet, "/admin/waitlist", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])

	status, _ = h.do(t, http.MethodGet, "/admin/waitlist", nil, map[string]string{
		"X-Admin-Key": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminList_WithSharedKey(t *testing.T) {
	h := newAPIHarness(t)
	h.submitDemand(t)

	status, body := h.do(t, http.MethodGet, "/admin/waitlist", nil, map[string]string{
		"X-Admin-Key": testAdminKey,
	})
	assert.Equal(t, http.StatusOK, status)

	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)

	entry, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pending", entry["approval_status"])
	assert.Equal(t, "alex@example.com", entry["email"])
}

func TestAdminList_WithSessionToken(t *testing.T) {
	h := newAPIHarness(t)
	h.submitDemand(t)

	status, body := h.do(t, http.MethodPost, "/admin/login", map[string]any{
		"admin_key": testAdminKey,
	}, nil)
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = h.do(t, http.MethodGet, "/admin/waitlist", nil, map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "entries")
}

func TestAdminLogin_WrongKey(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/admin/login", map[string]any{
		"admin_key": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}
