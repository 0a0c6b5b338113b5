// internal/utils/validation_errors.go
package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors mengubah error dari go-playground/validator menjadi
// map field -> pesan yang siap ditaruh di field Data response "Validation
// failed". Error lain (misal gagal parse JSON) menghasilkan satu entri generik.
func FormatValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			errorsMap[fieldErr.Field()] = fmt.Sprintf("Validation for field '%s' failed on the '%s' rule.", fieldErr.Field(), fieldErr.Tag())
		}
	} else {
		errorsMap["error"] = "Invalid input data or incorrect format."
	}

	return errorsMap
}
