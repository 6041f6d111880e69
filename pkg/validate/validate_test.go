package validate_test

import (
	"testing"
	"time"

	"github.com/Astemirdum/library-management/pkg/validate"
	"github.com/stretchr/testify/require"
)

type bookReq struct {
	Title           string `json:"title" validate:"required,max=255"`
	PublicationYear *int   `json:"publication_year" validate:"omitempty,min=1000,maxyear=1"`
	BirthDate       string `json:"birth_date" validate:"omitempty,date"`
}

func TestCustomValidator(t *testing.T) {
	t.Parallel()
	v := validate.NewCustomValidator()

	year := time.Now().Year() + 1
	require.NoError(t, v.Validate(bookReq{Title: "Go", PublicationYear: &year, BirthDate: "1970-01-31"}))

	tooLate := time.Now().Year() + 2
	err := v.Validate(bookReq{PublicationYear: &tooLate, BirthDate: "31/01/1970"})
	require.Error(t, err)

	fields := validate.FieldErrors(err)
	require.Equal(t, []string{"The title field is required."}, fields["title"])
	require.Len(t, fields["publication_year"], 1)
	require.Equal(t, []string{"The birth date is not a valid date (YYYY-MM-DD)."}, fields["birth_date"])
}

func TestFieldErrors_notValidation(t *testing.T) {
	t.Parallel()
	require.Nil(t, validate.FieldErrors(nil))
}
