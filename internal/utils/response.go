package utils

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Report binding failures under the field names clients actually sent.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)

	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		return name
	})
}

// Success writes the {data, message} envelope every successful response uses.
func Success(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, gin.H{
		"data":    data,
		"message": message,
	})
}

// Error writes a plain error envelope.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// Denied is the uniform 403 body. The message never names the resource, so
// an unauthorized caller learns nothing beyond the denial itself.
func Denied(ctx *gin.Context) {
	ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
}

// ValidationError turns a binding failure into a 422 with field-level
// messages, keyed by the JSON name of each offending field.
func ValidationError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors

	if !errors.As(err, &verrs) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body"})
		return
	}

	fields := make(map[string]string, len(verrs))

	for _, fe := range verrs {
		name := fe.Field()

		switch fe.Tag() {
		case "required":
			fields[name] = "The " + name + " field is required"
		case "email":
			fields[name] = "The " + name + " field must be a valid email address"
		case "min":
			fields[name] = "The " + name + " field must be at least " + fe.Param() + " characters"
		case "max":
			fields[name] = "The " + name + " field may not be greater than " + fe.Param() + " characters"
		case "oneof":
			fields[name] = "The " + name + " field must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
		default:
			fields[name] = "The " + name + " field is invalid"
		}
	}

	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "Validation failed",
		"errors": fields,
	})
}
