package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/services"
)

func newTestMux(register func(mux *http.ServeMux, mw *auth.Middleware)) *http.ServeMux {
	mux := http.NewServeMux()
	// Verification disabled: requests run under the development identity.
	mw := auth.NewMiddleware(nil, false, zap.NewNop())
	register(mux, mw)
	return mux
}

func levelChangeForm(t *testing.T, fields map[string]string, files ...string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range files {
		fw, err := w.CreateFormFile("documents", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("evidence"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestApplyLevelChangeHandler(t *testing.T) {
	svc := &mockProgressionService{}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	body, contentType := levelChangeForm(t,
		map[string]string{"employee_id": "1", "skill_id": "10", "level": "2"},
		"cert.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/employee-skills", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.lastEmployee)
	assert.Equal(t, int64(10), svc.lastSkill)
	assert.Equal(t, 2, svc.lastLevel)
}

func TestApplyLevelChangeHandler_CreatedStatus(t *testing.T) {
	svc := &mockProgressionService{result: &services.LevelChangeResult{
		Record:  &models.EmployeeSkill{ID: 1, EmployeeID: 1, SkillID: 10, Level: 3},
		Created: true,
	}}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	body, contentType := levelChangeForm(t,
		map[string]string{"employee_id": "1", "skill_id": "10", "level": "3"})
	req := httptest.NewRequest(http.MethodPost, "/api/employee-skills", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestApplyLevelChangeHandler_NonSequential(t *testing.T) {
	svc := &mockProgressionService{err: &apperrors.NonSequentialTransitionError{Current: 1, Requested: 3}}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	body, contentType := levelChangeForm(t,
		map[string]string{"employee_id": "1", "skill_id": "10", "level": "3"})
	req := httptest.NewRequest(http.MethodPost, "/api/employee-skills", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "non_sequential_transition", resp["error"])
	assert.Contains(t, resp["message"], "from 1 to 3")
}

func TestApplyLevelChangeHandler_InvalidLevel(t *testing.T) {
	svc := &mockProgressionService{err: apperrors.ErrInvalidLevel}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	body, contentType := levelChangeForm(t,
		map[string]string{"employee_id": "1", "skill_id": "10", "level": "4"})
	req := httptest.NewRequest(http.MethodPost, "/api/employee-skills", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "invalid_level", resp["error"])
}

func TestApplyLevelChangeHandler_NonNumericFields(t *testing.T) {
	svc := &mockProgressionService{}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	body, contentType := levelChangeForm(t,
		map[string]string{"employee_id": "abc", "skill_id": "10", "level": "2"})
	req := httptest.NewRequest(http.MethodPost, "/api/employee-skills", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListForEmployeeHandler(t *testing.T) {
	svc := &mockProgressionService{views: []*models.EmployeeSkillView{
		{EmployeeSkill: models.EmployeeSkill{ID: 1, EmployeeID: 4, SkillID: 10, Level: 2}, SkillName: "Welding"},
	}}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/employee-skills/4", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []*models.EmployeeSkillView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "Welding", views[0].SkillName)
}

func TestListForEmployeeHandler_BadID(t *testing.T) {
	mux := newTestMux(NewEmployeeSkillsHandler(&mockProgressionService{}, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/employee-skills/abc", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAssignmentHandler(t *testing.T) {
	svc := &mockProgressionService{}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodDelete, "/api/employee-skills/4/10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.deleted)
}

func TestDeleteAssignmentHandler_NotFound(t *testing.T) {
	svc := &mockProgressionService{err: apperrors.ErrNotFound}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodDelete, "/api/employee-skills/4/10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListForEmployeeCodeHandler(t *testing.T) {
	svc := &mockProgressionService{views: []*models.EmployeeSkillView{
		{EmployeeSkill: models.EmployeeSkill{ID: 1, EmployeeID: 4, SkillID: 10, Level: 2}, SkillName: "Welding"},
	}}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/public/employees/EMP-0042/skills", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EMP-0042", svc.lastCode)
	var views []*models.EmployeeSkillView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 1)
}

func TestListForEmployeeCodeHandler_UnknownCode(t *testing.T) {
	svc := &mockProgressionService{err: apperrors.ErrNotFound}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/public/employees/EMP-9999/skills", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListForAreaHandler_Filters(t *testing.T) {
	svc := &mockProgressionService{}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/skills/by-area/5?shift_id=2&class_id=3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastShiftID)
	assert.Equal(t, int64(2), *svc.lastShiftID)
	require.NotNil(t, svc.lastClassID)
	assert.Equal(t, int64(3), *svc.lastClassID)
}

func TestListForAreaHandler_NoFilters(t *testing.T) {
	svc := &mockProgressionService{}
	mux := newTestMux(NewEmployeeSkillsHandler(svc, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/skills/by-area/5", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastShiftID)
	assert.Nil(t, svc.lastClassID)
}

func TestListForAreaHandler_BadFilter(t *testing.T) {
	mux := newTestMux(NewEmployeeSkillsHandler(&mockProgressionService{}, 1<<20, zap.NewNop()).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/skills/by-area/5?shift_id=night", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
