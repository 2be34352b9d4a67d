package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/lessonhub/internal/app/system/inputval"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestEnvelopeShapes(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantErrors bool
	}{
		{"ok", func(w http.ResponseWriter) { respond.OK(w, "ok", []int{1}) }, 200, false},
		{"created", func(w http.ResponseWriter) { respond.Created(w, "created", map[string]int{"a": 1}) }, 201, false},
		{"not found", func(w http.ResponseWriter) { respond.Error(w, 404, "course not found") }, 404, false},
		{"validation", func(w http.ResponseWriter) {
			respond.Validation(w, "validation failed", []inputval.FieldError{{Path: "priority", Msg: "priority is required"}})
		}, 400, true},
		{"internal", func(w http.ResponseWriter) { respond.Internal(w, nil, "boom", errors.New("db down")) }, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type: got %q", ct)
			}
			body := decode(t, rec)
			if int(body["state"].(float64)) != tt.wantStatus {
				t.Errorf("state: got %v, want %d", body["state"], tt.wantStatus)
			}
			if _, ok := body["msg"]; !ok {
				t.Error("missing msg")
			}
			if _, ok := body["data"]; !ok {
				t.Error("missing data key")
			}
			_, hasErrors := body["errors"]
			if hasErrors != tt.wantErrors {
				t.Errorf("errors present: got %v, want %v", hasErrors, tt.wantErrors)
			}
		})
	}
}

func TestInternal_EchoesErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Internal(rec, nil, "list failed", errors.New("connection refused"))

	body := decode(t, rec)
	if body["msg"] != "connection refused" {
		t.Errorf("msg: got %v, want connection refused", body["msg"])
	}
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Priority int `json:"priority"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"priority":2}`, false},
		{"empty", ``, true},
		{"malformed", `{"priority":`, true},
		{"unknown field ignored", `{"priority":2,"rank":1}`, false},
		{"wrong type", `{"priority":"two"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst req
			err := respond.DecodeJSON(r, &dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("err: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
