package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// decimalGT0 validates that a decimal.Decimal field is strictly positive.
// Gin's default validators only understand numeric primitives.
func decimalGT0(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return value.IsPositive()
}

// registerCustomValidators hooks domain-specific validations into gin's
// binding engine. Safe to call more than once.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("decimalgt0", decimalGT0)
	}
}
