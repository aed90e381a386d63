package middleware

import (
	"errors"
	"strings"

	"github.com/redants-101/nano-banana-ai/internal/auth"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var errNoValidator = errors.New("gin validator engine is not go-playground/validator")

// RegisterValidators adds the custom tags used by request bodies:
// "oauthprovider" accepts a supported sign-in provider, in any case.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errNoValidator
	}
	return v.RegisterValidation("oauthprovider", func(fl validator.FieldLevel) bool {
		return auth.IsValidProvider(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	})
}
