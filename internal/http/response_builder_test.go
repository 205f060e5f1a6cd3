package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/1").
		JSON(map[string]string{"id": "1"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if loc := w.Header().Get("Location"); loc != "/api/expenses/1" {
		t.Errorf("Location = %q", loc)
	}
	if w.Body.String() != `{"id":"1"}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_Attachment(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Text("text/csv; charset=utf-8", `"Date"`).
		Attachment("expenses-2024-01-20.csv").
		Write(w)

	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="expenses-2024-01-20.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if w.Body.String() != `"Date"` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_EncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().JSON(make(chan int)).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ResponseBuilder
		wantCode int
		wantBody string
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest, `{"error":"bad"}`},
		{"not found", NotFoundError("No expenses to export"), http.StatusNotFound, `{"error":"No expenses to export"}`},
		{"internal", InternalServerError("internal error"), http.StatusInternalServerError, `{"error":"internal error"}`},
		{"validation", ValidationErrorResponse(map[string]string{"amount": "Amount must be greater than 0"}),
			http.StatusUnprocessableEntity, `{"errors":{"amount":"Amount must be greater than 0"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantCode)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestTooManyRequestsError(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequestsError().Write(w)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Status code = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", w.Header().Get("Retry-After"))
	}
}
