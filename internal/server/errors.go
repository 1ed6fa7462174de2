package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report fields by their JSON name
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func errorBody(detail string) gin.H {
	return gin.H{"detail": detail}
}

// bindingFailure maps a request decoding or validation error to a status and detail
func bindingFailure(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxBytes.Limit)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return http.StatusUnprocessableEntity, validationMessage(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return http.StatusUnprocessableEntity, fmt.Sprintf("%s: value is not a valid integer", field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusUnprocessableEntity, "request body is not valid JSON"
	}

	return http.StatusUnprocessableEntity, err.Error()
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: field required", field)
	case "min":
		return fmt.Sprintf("%s: ensure this value has at least %s items", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}
