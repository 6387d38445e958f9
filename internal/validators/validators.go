package validators

import (
	"fmt"
	"strings"

	"milsonresponse/internal/models"
	"milsonresponse/pkg/errs"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("latitude_range", validateLatitude)
	validate.RegisterValidation("longitude_range", validateLongitude)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180 && lng <= 180
}

// ValidateStruct runs tag validation and folds failures into a single
// validation error listing the offending fields.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Wrap(errs.ErrValidation, "invalid request")
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return errs.Wrap(errs.ErrValidation, "invalid fields: %s", strings.Join(fields, ", "))
}

// ValidateLocation checks a coordinate pair against WGS84 ranges.
func ValidateLocation(location models.Location) error {
	if !location.Valid() {
		return errs.Wrap(errs.ErrValidation, "latitude must be within [-90, 90] and longitude within [-180, 180]")
	}
	return nil
}
