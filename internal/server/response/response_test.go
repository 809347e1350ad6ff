package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"nombre": "Camisa"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp struct {
		Data  map[string]string `json:"data"`
		Error *Error            `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error != nil {
		t.Errorf("error = %+v, want nil", resp.Error)
	}
	if resp.Data["nombre"] != "Camisa" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		write    func(http.ResponseWriter)
		wantCode int
		wantErr  string
	}{
		{
			name:     "bad request",
			write:    func(w http.ResponseWriter) { BadRequest(w, "invalid", "details") },
			wantCode: http.StatusBadRequest,
			wantErr:  "BAD_REQUEST",
		},
		{
			name:     "not found",
			write:    func(w http.ResponseWriter) { NotFound(w, "missing", "") },
			wantCode: http.StatusNotFound,
			wantErr:  "NOT_FOUND",
		},
		{
			name:     "method not allowed",
			write:    func(w http.ResponseWriter) { MethodNotAllowed(w) },
			wantCode: http.StatusMethodNotAllowed,
			wantErr:  "METHOD_NOT_ALLOWED",
		},
		{
			name:     "internal error",
			write:    func(w http.ResponseWriter) { InternalError(w, "boom", "") },
			wantCode: http.StatusInternalServerError,
			wantErr:  "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}

			var resp Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if resp.Error == nil {
				t.Fatal("error missing from envelope")
			}
			if resp.Error.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantErr)
			}
		})
	}
}
