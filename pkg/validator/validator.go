package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterTimeOfDay adds the "timeofday" rule, accepting wall-clock values
// like "09:00" or "17:30". Registered against gin's binding engine at router
// setup so request structs can use it in binding tags.
func RegisterTimeOfDay(v *validator.Validate) {
	_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		return timeOfDayPattern.MatchString(fl.Field().String())
	})
}
