package handlers

import (
	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/tag"

	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	catalogHandler struct {
		tagService        tag.TagService
		ingredientService ingredient.IngredientService
	}
)

func NewCatalogHandler(tagService tag.TagService, ingredientService ingredient.IngredientService) CatalogHandler {
	return &catalogHandler{
		tagService:        tagService,
		ingredientService: ingredientService,
	}
}

func (h *catalogHandler) GetTags(c *fiber.Ctx) error {
	tags, err := h.tagService.GetTags(c.Context())
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetTags, err)
	}

	res := make([]domain.TagResponse, len(tags))
	for i, t := range tags {
		res[i] = presenters.TagResponse(t)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *catalogHandler) GetTag(c *fiber.Ctx) error {
	tagID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetTag, err)
	}

	t, err := h.tagService.GetTag(c.Context(), tagID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetTag, err)
	}

	return presenters.SuccessResponse(c, presenters.TagResponse(t), fiber.StatusOK, domain.MessageSuccessGetTag)
}

func (h *catalogHandler) GetIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredientService.GetIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetIngredients, err)
	}

	res := make([]domain.IngredientResponse, len(ingredients))
	for i, in := range ingredients {
		res[i] = presenters.IngredientResponse(in)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *catalogHandler) GetIngredient(c *fiber.Ctx) error {
	ingredientID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetIngredient, err)
	}

	in, err := h.ingredientService.GetIngredient(c.Context(), ingredientID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetIngredient, err)
	}

	return presenters.SuccessResponse(c, presenters.IngredientResponse(in), fiber.StatusOK, domain.MessageSuccessGetIngredient)
}
