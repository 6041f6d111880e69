package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldErrors converts validator errors into a json-field -> messages map.
// It returns nil when err does not come from the validator.
func FieldErrors(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		fields[name] = append(fields[name], Message(fe))
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func Message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "date":
		return fmt.Sprintf("The %s is not a valid date (YYYY-MM-DD).", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid; must be one of: %s.", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "maxyear":
		offset, _ := strconv.Atoi(fe.Param())
		return fmt.Sprintf("The %s may not be greater than %d.", field, time.Now().Year()+offset)
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("The %s may not be greater than %s.", field, strings.ToLower(fe.Param()))
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", field)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
