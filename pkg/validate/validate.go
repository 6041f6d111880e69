package validate

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("date", dateValidator)
	_ = v.RegisterValidation("maxyear", maxYearValidator)
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// dateValidator accepts YYYY-MM-DD strings. Empty values are left to omitempty/required.
func dateValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// maxYearValidator bounds an integer by the current year plus the tag offset, e.g. maxyear=1.
func maxYearValidator(fl validator.FieldLevel) bool {
	offset, err := strconv.Atoi(fl.Param())
	if err != nil {
		offset = 0
	}
	return fl.Field().Int() <= int64(time.Now().Year()+offset)
}
