package http

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/gofiber/fiber/v2"
	"github.com/iancoleman/strcase"
	validator "gopkg.in/go-playground/validator.v9"
	enTranslations "gopkg.in/go-playground/validator.v9/translations/en"

	"github.com/feastly/draw-engine/pkg"
	"github.com/feastly/draw-engine/pkg/constant"
)

func newValidator() (*validator.Validate, ut.Translator) {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(v, trans)

	return v, trans
}

// DecodeAndValidate parses the JSON body into payload and runs struct
// validation, returning field-level messages keyed by the JSON field name.
func DecodeAndValidate(c *fiber.Ctx, payload any) error {
	if err := c.BodyParser(payload); err != nil {
		return pkg.ValidateBusinessError(constant.ErrInvalidRequestBody, "Request")
	}

	return ValidateStruct(payload)
}

// ValidateStruct runs struct validation on an already-populated payload.
func ValidateStruct(payload any) error {
	v, trans := newValidator()

	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return pkg.ValidateBusinessError(constant.ErrInvalidRequestBody, "Request")
	}

	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strcase.ToLowerCamel(fe.Field())] = fe.Translate(trans)
		}
	}

	return pkg.ValidationError{
		EntityType: "Request",
		Code:       constant.ErrMissingFieldsInRequest.Error(),
		Title:      "Missing Or Invalid Fields",
		Message:    "The request carries missing or invalid fields.",
		Fields:     fields,
		Err:        constant.ErrMissingFieldsInRequest,
	}
}
