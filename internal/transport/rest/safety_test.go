package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/greenplate/foodsafe-backend/internal/domain"
	"github.com/greenplate/foodsafe-backend/pkg/ctxutil"
)

type safetyEngineMock struct {
	CheckFunc func(ctx context.Context, reportNo string, userID int64) ([]domain.Warning, error)
}

func (m *safetyEngineMock) CheckProduct(ctx context.Context, reportNo string, userID int64) ([]domain.Warning, error) {
	return m.CheckFunc(ctx, reportNo, userID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func milkWarning() domain.Warning {
	return domain.Warning{
		Type:    domain.WarningTypeAllergy,
		Level:   domain.WarningLevelWarn,
		Title:   "알러지 주의",
		Message: "우유 성분이 포함되어 있습니다.",
	}
}

func TestCheckSafety_OK(t *testing.T) {
	t.Parallel()

	var gotReportNo string
	var gotUserID int64
	h := NewSafetyHandler(&safetyEngineMock{
		CheckFunc: func(_ context.Context, reportNo string, userID int64) ([]domain.Warning, error) {
			gotReportNo, gotUserID = reportNo, userID
			return []domain.Warning{milkWarning()}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/product/check-safety?reportNo=2019001&userId=7", nil)
	rec := httptest.NewRecorder()
	h.CheckSafety(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotReportNo != "2019001" || gotUserID != 7 {
		t.Errorf("engine called with (%q, %d), want (2019001, 7)", gotReportNo, gotUserID)
	}

	var resp warningsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(resp.Warnings))
	}
	if resp.Warnings[0].Title != "알러지 주의" {
		t.Errorf("title = %q", resp.Warnings[0].Title)
	}
}

func TestCheckSafety_BearerIdentityWinsOverQueryParam(t *testing.T) {
	t.Parallel()

	var gotUserID int64
	h := NewSafetyHandler(&safetyEngineMock{
		CheckFunc: func(_ context.Context, _ string, userID int64) ([]domain.Warning, error) {
			gotUserID = userID
			return []domain.Warning{}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/product/check-safety?reportNo=2019001&userId=99", nil)
	req = req.WithContext(ctxutil.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	h.CheckSafety(rec, req)

	if gotUserID != 7 {
		t.Errorf("engine called with user %d, want the authenticated 7", gotUserID)
	}
}

func TestCheckSafety_AnonymousEmptyList(t *testing.T) {
	t.Parallel()

	h := NewSafetyHandler(&safetyEngineMock{
		CheckFunc: func(_ context.Context, _ string, userID int64) ([]domain.Warning, error) {
			if userID != 0 {
				t.Errorf("userID = %d, want 0", userID)
			}
			return []domain.Warning{}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/product/check-safety?reportNo=2019001", nil)
	rec := httptest.NewRecorder()
	h.CheckSafety(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"warnings\":[]}\n" {
		t.Errorf("body = %q, want empty warnings array", got)
	}
}

func TestCheckSafety_MissingReportNo(t *testing.T) {
	t.Parallel()

	h := NewSafetyHandler(&safetyEngineMock{
		CheckFunc: func(context.Context, string, int64) ([]domain.Warning, error) {
			t.Error("engine must not be called")
			return nil, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/product/check-safety", nil)
	rec := httptest.NewRecorder()
	h.CheckSafety(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCheckSafety_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown product", fmt.Errorf("product 2019001: %w", domain.ErrNotFound), http.StatusNotFound},
		{"reference outage", fmt.Errorf("load snapshot: %w", domain.ErrReferenceDataUnavailable), http.StatusServiceUnavailable},
		{"validation", domain.NewValidationError("reportNo", "must not be blank"), http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewSafetyHandler(&safetyEngineMock{
				CheckFunc: func(context.Context, string, int64) ([]domain.Warning, error) {
					return nil, tt.err
				},
			}, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/product/check-safety?reportNo=2019001&userId=7", nil)
			rec := httptest.NewRecorder()
			h.CheckSafety(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestResolveUserID_GarbageParam(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"abc", "-3", "0", "9999999999999999999999"} {
		req := httptest.NewRequest(http.MethodGet, "/?userId="+raw, nil)
		if got := resolveUserID(req); got != 0 {
			t.Errorf("resolveUserID(%q) = %d, want 0", raw, got)
		}
	}
}
