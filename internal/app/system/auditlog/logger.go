package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/lessonhub/internal/app/store/audit"
	"github.com/dalemusser/lessonhub/internal/app/system/reqlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls ledger mutation events (assign, unassign, priority, reorder, toggle).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
	// Catalog controls catalog create events. Same values as Admin.
	Catalog string
}

// Logger writes audit events to MongoDB (via audit.Store) and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Ledger != "" {
		fields = append(fields, zap.String("ledger", event.Ledger))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.ContainerID != nil {
		fields = append(fields, zap.String("container_id", event.ContainerID.Hex()))
	}
	if event.MemberID != nil {
		fields = append(fields, zap.String("member_id", event.MemberID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's setting.
// A nil Logger is a no-op so handlers under test can skip auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryCatalog:
		setting = l.config.Catalog
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if event.RequestID == "" {
		event.RequestID = reqlog.ID(ctx)
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func ledgerEvent(r *http.Request, ledger, eventType string, containerID, memberID primitive.ObjectID, details map[string]string) audit.Event {
	return audit.Event{
		Category:    audit.CategoryAdmin,
		EventType:   eventType,
		Ledger:      ledger,
		ContainerID: &containerID,
		MemberID:    &memberID,
		IP:          getClientIP(r),
		UserAgent:   r.UserAgent(),
		Success:     true,
		Details:     details,
	}
}

// --- Ledger Events ---

// MemberAssigned logs a new ledger row. requested is 0 when no priority was sent.
func (l *Logger) MemberAssigned(ctx context.Context, r *http.Request, ledger string, containerID, memberID primitive.ObjectID, requested, stored int) {
	details := map[string]string{"priority": strconv.Itoa(stored)}
	if requested > 0 {
		details["requested_priority"] = strconv.Itoa(requested)
	}
	l.Log(ctx, ledgerEvent(r, ledger, audit.EventMemberAssigned, containerID, memberID, details))
}

// MemberUnassigned logs a removed ledger row.
func (l *Logger) MemberUnassigned(ctx context.Context, r *http.Request, ledger string, containerID, memberID primitive.ObjectID) {
	l.Log(ctx, ledgerEvent(r, ledger, audit.EventMemberUnassigned, containerID, memberID, nil))
}

// PriorityChanged logs a single-row priority update.
func (l *Logger) PriorityChanged(ctx context.Context, r *http.Request, ledger string, containerID, memberID primitive.ObjectID, requested, stored int) {
	l.Log(ctx, ledgerEvent(r, ledger, audit.EventPriorityChanged, containerID, memberID, map[string]string{
		"requested_priority": strconv.Itoa(requested),
		"priority":           strconv.Itoa(stored),
	}))
}

// AssignmentToggled logs an is_active flip.
func (l *Logger) AssignmentToggled(ctx context.Context, r *http.Request, ledger string, containerID, memberID primitive.ObjectID, active bool) {
	eventType := audit.EventAssignmentDeactivated
	if active {
		eventType = audit.EventAssignmentActivated
	}
	l.Log(ctx, ledgerEvent(r, ledger, eventType, containerID, memberID, nil))
}

// MembersReordered logs a committed reorder batch.
func (l *Logger) MembersReordered(ctx context.Context, r *http.Request, ledger string, containerID primitive.ObjectID, count int) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAdmin,
		EventType:   audit.EventMembersReordered,
		Ledger:      ledger,
		ContainerID: &containerID,
		IP:          getClientIP(r),
		UserAgent:   r.UserAgent(),
		Success:     true,
		Details:     map[string]string{"count": strconv.Itoa(count)},
	})
}

// ReorderAborted logs a rolled-back reorder batch.
func (l *Logger) ReorderAborted(ctx context.Context, r *http.Request, ledger string, containerID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventReorderAborted,
		Ledger:        ledger,
		ContainerID:   &containerID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}

// --- Catalog Events ---

// CatalogCreated logs the creation of a course, member or label.
func (l *Logger) CatalogCreated(ctx context.Context, r *http.Request, eventType string, id primitive.ObjectID, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryCatalog,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"id":   id.Hex(),
			"name": name,
		},
	})
}
