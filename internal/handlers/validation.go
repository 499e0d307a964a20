package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// abortBindingError turns a failed bind into either a field-level validation
// response or a generic bad-request for malformed JSON.
func abortBindingError(ctx *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	if !errors.As(err, &validationErrs) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	fieldErrors := make([]FieldError, 0, len(validationErrs))

	for _, fieldErr := range validationErrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   strings.ToLower(fieldErr.Field()),
			Message: validationMessage(fieldErr),
		})
	}

	ctx.JSON(http.StatusBadRequest, gin.H{
		"message": "Invalid input data",
		"errors":  fieldErrors,
	})
}

func validationMessage(fieldErr validator.FieldError) string {
	field := strings.ToLower(fieldErr.Field())

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s should contain at least %s symbols", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s should contain at most %s symbols", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
