package dto

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators registra no validador do gin as regras para valores
// decimais: decimal_gt0 (maior que zero) e decimal_gte0 (não negativo).
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validador do gin não é go-playground/validator")
	}
	return registerDecimalRules(v)
}

func registerDecimalRules(v *validator.Validate) error {
	// Decimais são validados pela representação textual
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimal_gt0", decimalRule(func(d decimal.Decimal) bool { return d.IsPositive() })); err != nil {
		return fmt.Errorf("erro ao registrar decimal_gt0: %w", err)
	}
	if err := v.RegisterValidation("decimal_gte0", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() })); err != nil {
		return fmt.Errorf("erro ao registrar decimal_gte0: %w", err)
	}
	return nil
}

func decimalRule(accept func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		d, err := decimal.NewFromString(field.String())
		if err != nil {
			return false
		}
		return accept(d)
	}
}
