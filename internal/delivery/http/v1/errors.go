package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgGetNotFound    = "NO task found"
	msgUpdateNotFound = "No task Found"
	msgDeleteNotFound = "No Task Found"
)

type apiError struct {
	Code    int
	Message string
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"detail": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

type validationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func abortValidation(c *gin.Context, details ...validationDetail) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
}

// bindingErrorDetails turns a gin binding error into one detail per
// offending field.
func bindingErrorDetails(err error) []validationDetail {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]validationDetail, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, validationDetail{
				Loc:  []string{"body", jsonFieldName(fe)},
				Msg:  fieldErrorMessage(fe),
				Type: fe.Tag(),
			})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []validationDetail{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  "value must be of type " + typeErr.Type.String(),
			Type: "type_error",
		}}
	}

	return []validationDetail{{
		Loc:  []string{"body"},
		Msg:  "malformed json body",
		Type: "json_invalid",
	}}
}

func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Content":
		return "content"
	case "IsCompleted":
		return "is_completed"
	default:
		return strings.ToLower(fe.Field())
	}
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed on " + fe.Tag() + " validation"
	}
}
