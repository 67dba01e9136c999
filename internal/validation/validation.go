// Package validation registers the custom binding tags used by request
// structs and turns validator errors into client-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oggyb/swipe-api/internal/db"
)

// DateLayout is the wire format of birthdays.
const DateLayout = time.DateOnly

var (
	once sync.Once

	genders = map[string]bool{
		db.GenderMale: true, db.GenderFemale: true, db.GenderNonBinary: true, db.GenderOther: true,
	}
	preferences = map[string]bool{
		db.PreferenceMen: true, db.PreferenceWomen: true, db.PreferenceNonBinary: true, db.PreferenceEveryone: true,
	}
)

// Register installs the custom tags on gin's validator. Safe to call many times.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return IsGender(fl.Field().String())
		})
		_ = v.RegisterValidation("preference", func(fl validator.FieldLevel) bool {
			return IsPreference(fl.Field().String())
		})
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
	})
}

func IsGender(s string) bool     { return genders[s] }
func IsPreference(s string) bool { return preferences[s] }

// Message renders the first validation failure as a sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must have at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gender":
		return fmt.Sprintf("%s must be one of Male, Female, Non-binary, Other", field)
	case "preference":
		return fmt.Sprintf("%s entries must be one of Men, Women, Non-binary, Everyone", field)
	case "date":
		return fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
