package middleware

import (
	"github.com/go-playground/validator/v10"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
)

// registerDomainRules adds tags for the booking vocabulary:
// civildate (YYYY-MM-DD), monthkey (YYYY-MM), bookingstatus and daykey.
func registerDomainRules(v *validator.Validate) {
	_ = v.RegisterValidation("civildate", func(fl validator.FieldLevel) bool {
		_, err := daterange.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("monthkey", func(fl validator.FieldLevel) bool {
		_, err := daterange.ParseDate(fl.Field().String() + "-01")
		return err == nil
	})
	_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
		_, err := booking.ParseStatus(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("daykey", func(fl validator.FieldLevel) bool {
		_, err := pricing.ParseDayKey(fl.Field().String())
		return err == nil
	})
}
