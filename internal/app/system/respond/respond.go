// Package respond writes the JSON envelope every API response uses:
//
//	{"state": <http status>, "msg": "...", "data": ..., "errors": [{"path","msg"}]}
//
// errors appears only on validation failures.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/inputval"
	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// Envelope is the response body shape.
type Envelope struct {
	State  int                   `json:"state"`
	Msg    string                `json:"msg"`
	Data   interface{}           `json:"data"`
	Errors []inputval.FieldError `json:"errors,omitempty"`
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, msg string, data interface{}) {
	write(w, Envelope{State: status, Msg: msg, Data: data})
}

// OK writes a 200 envelope.
func OK(w http.ResponseWriter, msg string, data interface{}) {
	JSON(w, http.StatusOK, msg, data)
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, msg string, data interface{}) {
	JSON(w, http.StatusCreated, msg, data)
}

// Error writes a failure envelope with null data.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, Envelope{State: status, Msg: msg})
}

// Validation writes a 400 envelope listing each failed field.
func Validation(w http.ResponseWriter, msg string, errs []inputval.FieldError) {
	write(w, Envelope{State: http.StatusBadRequest, Msg: msg, Errors: errs})
}

// Internal writes a 500 envelope carrying err's message and logs it.
func Internal(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, zap.Error(err))
	}
	Error(w, http.StatusInternalServerError, err.Error())
}

func write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(env.State)
	_ = json.NewEncoder(w).Encode(env)
}

// ErrEmptyBody is returned by DecodeJSON for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON reads one JSON value from r's body into dst. Fields dst does
// not declare are ignored.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// BadBody answers a DecodeJSON failure with a 400 validation envelope.
func BadBody(w http.ResponseWriter, err error) {
	Validation(w, "invalid request body", []inputval.FieldError{{Path: "body", Msg: err.Error()}})
}
