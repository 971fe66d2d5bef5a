package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mfadvisor-backend/internal/models"
)

type stubCrew struct {
	run       *models.Run
	err       error
	kickoffs  int
	gotInputs map[string]any
}

func (s *stubCrew) Kickoff(ctx context.Context, inputs map[string]any) (*models.Run, error) {
	s.kickoffs++
	s.gotInputs = inputs
	return s.run, s.err
}

func completedRun(reply string) *models.Run {
	return &models.Run{ID: uuid.New(), Status: "completed", Reply: &reply}
}

func postChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Chat(rr, req)
	return rr
}

func TestChat_Success(t *testing.T) {
	crew := &stubCrew{run: completedRun("Consider ₹5000/month")}
	handler := NewChatHandler(crew)

	rr := postChat(t, handler, `{
		"message": "What's a good SIP amount?",
		"history": [{"role": "user", "content": "What's a good SIP amount?"}]
	}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if crew.kickoffs != 1 {
		t.Fatalf("Expected exactly one kickoff, got %d", crew.kickoffs)
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Reply != "Consider ₹5000/month" {
		t.Errorf("Expected crew reply, got %q", resp.Reply)
	}
	if resp.Inputs["user_prompt"] != "What's a good SIP amount?" {
		t.Errorf("Expected inputs echoed, got %v", resp.Inputs["user_prompt"])
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{}`},
		{"empty message", `{"message": ""}`},
		{"whitespace only", `{"message": "   \n\t "}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			crew := &stubCrew{run: completedRun("unused")}
			handler := NewChatHandler(crew)

			rr := postChat(t, handler, tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
			if crew.kickoffs != 0 {
				t.Errorf("Expected no kickoff for blank message, got %d", crew.kickoffs)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if resp.Detail == "" {
				t.Error("Expected a detail message in the error body")
			}
		})
	}
}

func TestChat_InvalidBody(t *testing.T) {
	crew := &stubCrew{run: completedRun("unused")}
	handler := NewChatHandler(crew)

	rr := postChat(t, handler, `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
	if crew.kickoffs != 0 {
		t.Errorf("Expected no kickoff for malformed body, got %d", crew.kickoffs)
	}
}

func TestChat_CrewFailureSurfacesDetail(t *testing.T) {
	crew := &stubCrew{err: errors.New("LLM timeout")}
	handler := NewChatHandler(crew)

	rr := postChat(t, handler, `{"message": "hello"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if !strings.Contains(resp.Detail, "LLM timeout") {
		t.Errorf("Expected detail to carry the crew error, got %q", resp.Detail)
	}
}

func TestChat_DefaultsAppliedToInputs(t *testing.T) {
	crew := &stubCrew{run: completedRun("ok")}
	handler := NewChatHandler(crew)

	rr := postChat(t, handler, `{"message": "hi"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	if crew.gotInputs["fund_category"] != "Large Cap" {
		t.Errorf("Expected default fund category, got %v", crew.gotInputs["fund_category"])
	}
	if crew.gotInputs["monthly_sip"] != float64(10000) {
		t.Errorf("Expected default monthly SIP, got %v", crew.gotInputs["monthly_sip"])
	}
	if crew.gotInputs["investment_goal"] != "hi" {
		t.Errorf("Expected goal fallback to message, got %v", crew.gotInputs["investment_goal"])
	}
}

func TestChat_NumericFieldsDecodeAsNumbers(t *testing.T) {
	crew := &stubCrew{run: completedRun("ok")}
	handler := NewChatHandler(crew)

	rr := postChat(t, handler, `{"message": "hi", "monthly_sip": 2500, "purchase_nav": 41.2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	if crew.gotInputs["monthly_sip"] != float64(2500) {
		t.Errorf("Expected monthly_sip 2500, got %v", crew.gotInputs["monthly_sip"])
	}
	if crew.gotInputs["purchase_nav"] != 41.2 {
		t.Errorf("Expected purchase_nav 41.2, got %v", crew.gotInputs["purchase_nav"])
	}
}

func TestRunHandler_InvalidID(t *testing.T) {
	handler := NewRunHandler(failingRunRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/runs/not-a-uuid", nil)
	rr := httptest.NewRecorder()

	// Route through chi so URL params resolve.
	router := newTestRouter(handler)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid run ID, got %d", rr.Code)
	}
}

func TestRunHandler_NotFound(t *testing.T) {
	handler := NewRunHandler(failingRunRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/runs/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()

	router := newTestRouter(handler)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown run, got %d", rr.Code)
	}
}

func newTestRouter(runHandler *RunHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/runs/{id}", runHandler.Get)
	return r
}

type failingRunRepo struct{}

func (failingRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	return nil, errors.New("no rows")
}

func (failingRunRepo) ListRecent(ctx context.Context, limit int) ([]models.Run, error) {
	return nil, nil
}
