package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
)

// translateError maps driver and GORM errors onto the persistence boundary
// errors. GORM's TranslateError covers the known dialects; the message checks
// catch drivers that report constraint failures without a typed code.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, apierrors.ErrNotFound),
		errors.Is(err, apierrors.ErrConflict),
		errors.Is(err, apierrors.ErrInvalidReference),
		errors.Is(err, apierrors.ErrHasDependents):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", apierrors.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apierrors.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidReference, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate"):
		return fmt.Errorf("%w: %v", apierrors.ErrConflict, err)
	case strings.Contains(msg, "foreign key"):
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidReference, err)
	}
	return err
}
