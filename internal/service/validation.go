package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

var validate = validator.New()

// validateStruct reports the first failing field as a domain.ValidationError
// rooted at field.
func validateStruct(field string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		return domain.NewValidationError(field, "%s failed %q", path, fe.Tag())
	}
	return domain.NewValidationError(field, "%v", err)
}
