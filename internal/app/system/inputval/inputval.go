// Package inputval validates decoded request bodies and query parameters
// using struct tags, and reports failures as {path, msg} pairs keyed by the
// JSON field names clients send.
package inputval

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule.
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	// Hex ObjectID in a string field.
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
	// Non-blank after trimming.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Struct validates s and returns every failure, or nil when s is valid.
func Struct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Path: "", Msg: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Path: path(fe), Msg: message(fe)})
	}
	return out
}

// path drops the top-level struct name: "reorderRequest.memberOrder[0].memberId"
// becomes "memberOrder[0].memberId".
func path(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if isNumber(fe.Kind()) {
			return field + " must be at least " + fe.Param()
		}
		return field + " must contain at least " + fe.Param() + " item(s) or character(s)"
	case "max":
		if isNumber(fe.Kind()) {
			return field + " must be at most " + fe.Param()
		}
		return field + " must contain at most " + fe.Param() + " item(s) or character(s)"
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "objectid":
		return field + " must be a valid id"
	case "http_url", "url":
		return field + " must be an absolute http(s) URL"
	default:
		return field + " validation failed: " + fe.Tag()
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
