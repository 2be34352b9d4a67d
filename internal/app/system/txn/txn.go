// Package txn runs multi-document MongoDB work inside a session transaction,
// degrading to a plain call on deployments that cannot run transactions
// (standalone mongod, some DocumentDB setups).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes that mean "this deployment cannot do transactions".
const (
	codeIllegalOperation      = 20
	codeNoReplicationEnabled  = 51
	codeOperationNotSupported = 263
)

// Run executes fn inside a transaction on db's client.
//
// fn must do all of its reads and writes through the ctx it receives so they
// join the session. The driver may call fn more than once on transient
// transaction errors, so fn must be safe to repeat.
//
// When the server reports that transactions are unavailable, Run logs a
// warning and calls fn once more with the caller's ctx, outside any session.
// Errors returned by fn itself are passed through unchanged.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("sessions unavailable; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	var fnErr error
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		fnErr = fn(sc)
		return nil, fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil && errors.Is(err, fnErr) && !IsNotSupported(fnErr) {
		return err
	}
	if IsNotSupported(err) {
		log.Warn("transactions unavailable; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates that the connected deployment
// cannot run sessions or multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorCode(codeIllegalOperation) ||
			se.HasErrorCode(codeNoReplicationEnabled) ||
			se.HasErrorCode(codeOperationNotSupported) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session")):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}
