package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Envelope mirrors the JSON body every API response carries.
type Envelope struct {
	State  int             `json:"state"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Path string `json:"path"`
		Msg  string `json:"msg"`
	} `json:"errors"`
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is body encoded as JSON.
func NewJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request body: %v", err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// DecodeEnvelope parses the recorder body as an API envelope.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// DecodeData parses the envelope's data field into dst.
func DecodeData(t *testing.T, env Envelope, dst interface{}) {
	t.Helper()

	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("failed to decode data %s: %v", string(env.Data), err)
	}
}
