package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		// Report fields by their JSON (or form) name
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		_ = v.RegisterValidation("rollno", func(fl validator.FieldLevel) bool {
			return validation.IsValidRollNo(validation.NormalizeRollNo(fl.Field().String()))
		})
		_ = v.RegisterValidation("room", func(fl validator.FieldLevel) bool {
			return validation.IsValidRoom(validation.NormalizeRoom(fl.Field().String()))
		})
	})
}

// HandleBindError answers a request whose body failed to bind or validate
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format").
			WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewFailureResponse(detail))
		return
	}

	fields := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldError{Field: fe.Field(), Message: formatValidationError(fe)})
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fields[0].Message).
		WithField(fields[0].Field).
		WithDetails(fields)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewFailureResponse(detail))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "rollno":
		return e.Field() + " must be a roll number of 3-20 letters or digits"
	case "room":
		return e.Field() + " must be a room number like A-101"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
