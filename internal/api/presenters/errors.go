package presenters

import (
	"errors"

	"foodgram/domain"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	badRequest = []error{
		domain.ErrDuplicateIngredient,
		domain.ErrInvalidQuantity,
		domain.ErrDuplicateTag,
		domain.ErrInvalidImageFormat,
		domain.ErrInvalidReportFormat,
		domain.ErrParseID,
		domain.ErrEmailAlreadyExists,
		domain.ErrWrongPassword,

		domain.ErrAlreadyFavorited,
		domain.ErrNotFavorited,
		domain.ErrAlreadyInCart,
		domain.ErrNotInCart,
		domain.ErrAlreadySubscribed,
		domain.ErrNotSubscribed,
		domain.ErrSelfSubscription,
	}
	notFound = []error{
		domain.ErrRecipeNotFound,
		domain.ErrUserNotFound,
		domain.ErrIngredientNotFound,
		domain.ErrTagNotFound,
	}
	forbidden = []error{
		domain.ErrUnauthorizedRecipeAccess,
		domain.ErrUserNotAllowed,
	}
	unauthorized = []error{
		domain.ErrTokenNotFound,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
		domain.ErrInvalidCredentials,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// StatusFromError maps domain errors to HTTP status codes. Unknown errors are 500.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case utils.FieldErrors(err) != nil, isAny(err, badRequest):
		return fiber.StatusBadRequest
	case isAny(err, notFound):
		return fiber.StatusNotFound
	case isAny(err, forbidden):
		return fiber.StatusForbidden
	case isAny(err, unauthorized):
		return fiber.StatusUnauthorized
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
}
