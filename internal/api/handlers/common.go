package handlers

import (
	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, domain.ErrParseID
	}
	return uint(id), nil
}

func parsePage(c *fiber.Ctx, pageSize int) domain.PaginationRequest {
	page := domain.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", pageSize),
	}
	return page.Normalize(pageSize)
}
