package presenters

import (
	"foodgram/domain"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const MessageInternalError = "internal server error"

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	res := Response{
		Status:  true,
		Message: message,
		Data:    data,
	}
	return c.Status(code).JSON(res)
}

// ErrorResponse renders validation failures field by field. Messages of
// unexpected errors are not exposed on 5xx responses.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	switch {
	case err == nil:
	case utils.FieldErrors(err) != nil:
		res.Error = utils.FieldErrors(err)
	case code >= fiber.StatusInternalServerError:
		res.Error = MessageInternalError
	default:
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

// Fail picks the status code from err.
func Fail(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

func Paginated(results any, page domain.PaginationRequest, total int64) fiber.Map {
	return fiber.Map{
		"results":    results,
		"pagination": domain.NewPaginationResponse(page, total),
	}
}
