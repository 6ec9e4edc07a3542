package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
)

// maxJSONBody bounds API request bodies.
const maxJSONBody = 1 << 20

var phonePattern = regexp.MustCompile(`^[0-9 +()\-]{6,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal validates as a number so gt=0 and min=0 work.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Failures are returned as *apperr.ValidationError.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("body", "invalid JSON: "+err.Error())
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Invalid("body", err.Error())
	}

	out := &apperr.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, apperr.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name and embedded item structs from a
// validator namespace: "createSupplierRequest.items[0].ProductItem.baseName"
// becomes "items[0].baseName".
func fieldPath(ns string) string {
	ns = strings.ReplaceAll(ns, ".ProductItem.", ".")
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone":
		return "must have at least 6 digits, spaces or + ( ) -"
	case "len":
		return fmt.Sprintf("must have %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
