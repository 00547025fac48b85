// internal/validator/validator.go
package validator

import (
	"regexp"

	"cardmax/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(regexp.MustCompile(`\S`).FindString(s)) > 0
	})

	// Пустая строка или одна из известных категорий
	_ = Validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || domain.Category(s).Valid()
	})
}
