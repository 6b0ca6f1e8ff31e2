package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
)

// RegisterCustomValidators attaches the "accountcode" validation to gin's
// binding engine. A valid code is a dotted sequence of numeric segments,
// e.g. "1.1.2.01".
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
		_, _, err := domain.ParseAccountCode(fl.Field().String())
		return err == nil
	})
}
