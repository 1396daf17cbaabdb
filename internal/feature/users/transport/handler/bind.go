package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// errEmptyBody is returned by bindStrictJSON when the request carries no JSON value.
var errEmptyBody = errors.New("request body is empty")

// bindStrictJSON decodes the request body into obj and runs gin's validator on it.
// Unlike c.ShouldBindJSON it rejects unknown fields and trailing data, so a body
// is accepted only when it is exactly one JSON object of the expected shape.
func bindStrictJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return binding.Validator.ValidateStruct(obj)
}

// describeBindError renders validation failures as "field: rule" pairs
// (e.g. "email: required; name: max=80"). Other errors are returned as is.
func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", jsonFieldName(fe.Field()), rule))
	}
	return strings.Join(parts, "; ")
}

// jsonFieldName maps the request struct field names to their JSON keys.
func jsonFieldName(field string) string {
	return strings.ToLower(field)
}
