package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/features/health"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type healthData struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error"`
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}

	env := testutil.DecodeEnvelope(t, rec)
	var data healthData
	testutil.DecodeData(t, env, &data)
	if data.Status != "ok" || data.Database != "connected" {
		t.Errorf("data: got %+v", data)
	}
}

func TestServe_DatabaseDisconnected(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: 200 * time.Millisecond})
	t.Cleanup(timeouts.Reset)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Nothing listens on port 1; Connect is lazy so this succeeds.
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	handler := health.NewHandler(client, zap.NewNop())
	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	var data healthData
	testutil.DecodeData(t, env, &data)
	if data.Status != "error" || data.Database != "disconnected" || data.Error == "" {
		t.Errorf("data: got %+v", data)
	}
}
