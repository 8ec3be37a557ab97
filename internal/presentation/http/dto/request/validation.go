package request

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators teaches gin's validator about decimal amounts and makes
// field errors report JSON names. Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Configure(v)
}

// Configure installs the custom rules on v
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// decimals are validated through their canonical string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterStructValidation(validateItem, ItemRequest{})

	return v.RegisterValidation("dgte0", decimalNonNegative)
}

func validateItem(sl validator.StructLevel) {
	item := sl.Current().Interface().(ItemRequest)
	if strings.TrimSpace(item.Name) == "" {
		return
	}
	if item.Quantity < 0 {
		sl.ReportError(item.Quantity, "quantity", "Quantity", "min", "0")
	}
	if item.Amount.IsNegative() {
		sl.ReportError(item.Amount.String(), "amount", "Amount", "dgte0", "")
	}
}

func decimalNonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}
