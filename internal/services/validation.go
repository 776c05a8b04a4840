package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldErrors maps "Field.tag" failures onto the service's named errors.
var fieldErrors = map[string]error{
	"Email.required":    ErrEmailRequired,
	"Email.email":       ErrEmailRequired,
	"Username.required": ErrUsernameRequired,
	"Username.excludes": ErrUsernameHasAt,
	"Password.required": ErrPasswordTooShort,
	"Password.min":      ErrPasswordTooShort,
	"Password.max":      ErrPasswordTooLong,
	"Name.required":     ErrProjectNameRequired,
	"Name.min":          ErrProjectNameRequired,
	"Color.hexcolor":    ErrInvalidColor,
	"Color.len":         ErrInvalidColor,
	"Title.required":    ErrTitleRequired,
	"Title.min":         ErrTitleRequired,
	"Position.gte":      ErrNegativePosition,
}

// validateStruct runs the validate tags of input and reports the first
// failing field as an apierrors.ErrInvalidInput.
func validateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidInput, err)
	}
	return fieldError(verrs[0])
}

// validatePassword applies the password tag to a lone value.
func validatePassword(plaintext string) error {
	err := validate.Var(plaintext, passwordRule)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if mapped, ok := fieldErrors["Password."+verrs[0].Tag()]; ok {
			return mapped
		}
	}
	return fmt.Errorf("%w: %v", apierrors.ErrInvalidInput, err)
}

func fieldError(fe validator.FieldError) error {
	if mapped, ok := fieldErrors[fe.StructField()+"."+fe.Tag()]; ok {
		return mapped
	}
	if fe.Param() != "" {
		return fmt.Errorf("%w: %s must satisfy %s=%s", apierrors.ErrInvalidInput, fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %s must satisfy %s", apierrors.ErrInvalidInput, fe.Field(), fe.Tag())
}
