package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/service"
	"nexus-lab/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock ReservationService ──

type mockReservationService struct {
	createResult *dto.ReservationResponse
	createErr    error
	extendResult *dto.ReservationResponse
	extendErr    error
	listResult   []dto.ReservationResponse
	listErr      error
	statusResult *dto.ReservationResponse
	statusErr    error
}

func (m *mockReservationService) Create(_ context.Context, _ *dto.CreateReservationRequest, _ string) (*dto.ReservationResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockReservationService) Extend(_ context.Context, _ string, _ *dto.ExtendReservationRequest, _ string) (*dto.ReservationResponse, error) {
	return m.extendResult, m.extendErr
}
func (m *mockReservationService) List(_ context.Context) ([]dto.ReservationResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockReservationService) UpdateStatus(_ context.Context, _ string, _ *dto.UpdateReservationStatusRequest, _ string) (*dto.ReservationResponse, error) {
	return m.statusResult, m.statusErr
}

// ── Mock OccupancyService ──

type mockOccupancyService struct {
	resolveResult service.OccupancyStatus
	resolveErr    error
	findResult    []dto.ClassroomResponse
	findErr       error
	statusResult  []dto.ClassroomStatusResponse
	statusErr     error
}

func (m *mockOccupancyService) Resolve(_ context.Context, _, _ string, _ service.TimeWindow) (service.OccupancyStatus, error) {
	return m.resolveResult, m.resolveErr
}
func (m *mockOccupancyService) ResolveExcluding(_ context.Context, _, _ string, _ service.TimeWindow, _ string) (service.OccupancyStatus, error) {
	return m.resolveResult, m.resolveErr
}
func (m *mockOccupancyService) FindAvailable(_ context.Context, _ []string, _ service.TimeWindow) ([]dto.ClassroomResponse, error) {
	return m.findResult, m.findErr
}
func (m *mockOccupancyService) ListClassroomStatus(_ context.Context, _ string, _ service.TimeWindow) ([]dto.ClassroomStatusResponse, error) {
	return m.statusResult, m.statusErr
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// injectAuth 模拟 JWT 中间件注入的上下文
func injectAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// ═══════════════════════════════════════════════════════════
// ReservationHandler 测试
// ═══════════════════════════════════════════════════════════

func TestReservationHandler_Create_Success(t *testing.T) {
	mock := &mockReservationService{
		createResult: &dto.ReservationResponse{
			ID: "resv-1", Status: model.ReservationPending,
			Dates: []string{"2026-09-15"}, StartTime: "08:00", EndTime: "10:00",
		},
	}
	h := NewReservationHandler(mock)

	r := gin.New()
	r.POST("/reservations", injectAuth("user-1", "requester"), h.CreateReservation)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(dto.CreateReservationRequest{
		ClassroomID: "550e8400-e29b-41d4-a716-446655440000",
		Dates:       []string{"2026-09-15"},
		StartTime:   "08:00",
		EndTime:     "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际: %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("期望 code 0，实际: %d", resp.Code)
	}
}

func TestReservationHandler_Create_Conflict(t *testing.T) {
	mock := &mockReservationService{
		createErr: &service.ConflictError{
			Date:      "2026-09-15",
			Occupancy: service.ClassStatus(&model.ScheduleSession{SessionID: "sess-1", DayOfWeek: 2, StartTime: "08:00", EndTime: "10:00"}),
		},
	}
	h := NewReservationHandler(mock)

	r := gin.New()
	r.POST("/reservations", injectAuth("user-1", "requester"), h.CreateReservation)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(dto.CreateReservationRequest{
		ClassroomID: "550e8400-e29b-41d4-a716-446655440000",
		Dates:       []string{"2026-09-15"},
		StartTime:   "08:00",
		EndTime:     "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际: %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14001 {
		t.Errorf("期望 code 14001，实际: %d", resp.Code)
	}

	// 409 响应体携带冲突日期与占用方
	var body struct {
		Data dto.ConflictDetail `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析冲突详情失败: %v", err)
	}
	if body.Data.Date != "2026-09-15" {
		t.Errorf("期望冲突日期 2026-09-15，实际: %s", body.Data.Date)
	}
	if body.Data.Occupancy.Kind != "class" {
		t.Errorf("期望 kind=class，实际: %s", body.Data.Occupancy.Kind)
	}
}

func TestReservationHandler_Create_BadJSON(t *testing.T) {
	h := NewReservationHandler(&mockReservationService{})

	r := gin.New()
	r.POST("/reservations", injectAuth("user-1", "requester"), h.CreateReservation)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
}

func TestReservationHandler_Extend_NotFound(t *testing.T) {
	mock := &mockReservationService{extendErr: service.ErrReservationNotFound}
	h := NewReservationHandler(mock)

	r := gin.New()
	r.POST("/reservations/:id/dates", injectAuth("user-1", "requester"), h.ExtendReservation)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations/nonexistent/dates", jsonBody(dto.ExtendReservationRequest{
		Dates: []string{"2026-09-15"},
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际: %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// OccupancyHandler 测试
// ═══════════════════════════════════════════════════════════

func TestOccupancyHandler_GetOccupancy_Free(t *testing.T) {
	mock := &mockOccupancyService{resolveResult: service.FreeStatus()}
	h := NewOccupancyHandler(mock)

	r := gin.New()
	r.GET("/classrooms/:id/occupancy", h.GetOccupancy)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/classrooms/room-A/occupancy?date=2026-09-15&start=08:00&end=10:00", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}

	var body struct {
		Data dto.OccupancyResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.Data.Kind != "free" {
		t.Errorf("期望 kind=free，实际: %s", body.Data.Kind)
	}
}

func TestOccupancyHandler_GetOccupancy_MissingParams(t *testing.T) {
	h := NewOccupancyHandler(&mockOccupancyService{})

	r := gin.New()
	r.GET("/classrooms/:id/occupancy", h.GetOccupancy)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/classrooms/room-A/occupancy?date=2026-09-15", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
}

func TestOccupancyHandler_FindAvailable_InvalidWindow(t *testing.T) {
	mock := &mockOccupancyService{findErr: service.ErrInvalidTimeWindow}
	h := NewOccupancyHandler(mock)

	r := gin.New()
	r.GET("/occupancy/availability", h.FindAvailable)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/occupancy/availability?dates=2026-09-15&start=10:00&end=08:00", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13001 {
		t.Errorf("期望 code 13001，实际: %d", resp.Code)
	}
}
