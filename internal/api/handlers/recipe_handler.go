package handlers

import (
	"fmt"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shopping"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService   recipe.RecipeService
		shoppingService shopping.ShoppingService
		validator       *validator.Validate
		pageSize        int
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, shoppingService shopping.ShoppingService, validator *validator.Validate, pageSize int) RecipeHandler {
	return &recipeHandler{
		recipeService:   recipeService,
		shoppingService: shoppingService,
		validator:       validator,
		pageSize:        pageSize,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		AuthorID:         uint(max(c.QueryInt("author", 0), 0)),
		IsFavorited:      c.QueryBool("is_favorited", false),
		IsInShoppingCart: c.QueryBool("is_in_shopping_cart", false),
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.Tags = append(filter.Tags, string(slug))
	}
	page := parsePage(c, h.pageSize)

	views, total, err := h.recipeService.GetRecipes(c.Context(), filter, middleware.GetViewer(c), page)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, presenters.Paginated(presenters.RecipeDetails(views), page, total), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipeDetail, err)
	}

	view, err := h.recipeService.GetRecipe(c.Context(), recipeID, middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, presenters.RecipeDetail(view), fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	view, err := h.recipeService.CreateRecipe(c.Context(), *req, middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, presenters.RecipeDetail(view), fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateRecipe, err)
	}
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	view, err := h.recipeService.UpdateRecipe(c.Context(), recipeID, *req, middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, presenters.RecipeDetail(view), fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteRecipe, err)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), recipeID, middleware.GetViewer(c)); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedAddFavorite, err)
	}

	r, err := h.recipeService.AddFavorite(c.Context(), recipeID, middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedAddFavorite, err)
	}

	return presenters.SuccessResponse(c, presenters.RecipeShort(r), fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedRemoveFavorite, err)
	}

	if err := h.recipeService.RemoveFavorite(c.Context(), recipeID, middleware.GetViewer(c)); err != nil {
		return presenters.Fail(c, domain.MessageFailedRemoveFavorite, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveFavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedAddShoppingCart, err)
	}

	r, err := h.recipeService.AddToShoppingCart(c.Context(), recipeID, middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedAddShoppingCart, err)
	}

	return presenters.SuccessResponse(c, presenters.RecipeShort(r), fiber.StatusCreated, domain.MessageSuccessAddShoppingCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	recipeID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedRemoveShopping, err)
	}

	if err := h.recipeService.RemoveFromShoppingCart(c.Context(), recipeID, middleware.GetViewer(c)); err != nil {
		return presenters.Fail(c, domain.MessageFailedRemoveShopping, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveShopping)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	format := c.Query("format", shopping.FormatText)

	res, err := h.shoppingService.Export(c.Context(), middleware.GetViewer(c).ID, format)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetShoppingList, err)
	}

	if format == shopping.FormatJSON {
		return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingList)
	}

	c.Set(fiber.HeaderContentType, shopping.ReportContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, shopping.ReportFilename))
	return c.Status(fiber.StatusOK).SendString(res.Text)
}
