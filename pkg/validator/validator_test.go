package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type clockField struct {
	Value string `validate:"timeofday"`
}

func TestTimeOfDayRule(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterTimeOfDay(v)

	valid := []string{"00:00", "09:00", "17:30", "23:59"}
	for _, s := range valid {
		assert.NoError(t, v.Struct(clockField{Value: s}), s)
	}

	invalid := []string{"", "24:00", "9:00", "09:60", "9am", "09:00:00"}
	for _, s := range invalid {
		assert.Error(t, v.Struct(clockField{Value: s}), s)
	}
}
