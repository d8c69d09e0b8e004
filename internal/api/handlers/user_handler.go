package handlers

import (
	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		GetUsers(c *fiber.Ctx) error
		SetPassword(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
		pageSize    int
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate, pageSize int) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
		pageSize:    pageSize,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	u, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedRegister, err)
	}

	return presenters.SuccessResponse(c, presenters.RegisteredUser(u), fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedLogin, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

// Logout exists for client compatibility; tokens are stateless and expire on their own.
func (h *userHandler) Logout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	v, err := h.userService.Me(c.Context(), middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, presenters.UserProfile(v), fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}

	v, err := h.userService.GetUser(c.Context(), userID, middleware.GetViewer(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, presenters.UserProfile(v), fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	page := parsePage(c, h.pageSize)

	views, total, err := h.userService.GetUsers(c.Context(), middleware.GetViewer(c), page)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUsers, err)
	}

	users := make([]domain.UserResponse, len(views))
	for i, v := range views {
		users[i] = presenters.UserProfile(v)
	}
	return presenters.SuccessResponse(c, presenters.Paginated(users, page, total), fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) SetPassword(c *fiber.Ctx) error {
	req := new(domain.SetPasswordRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetPassword, err)
	}

	if err := h.userService.SetPassword(c.Context(), middleware.GetViewer(c), *req); err != nil {
		return presenters.Fail(c, domain.MessageFailedSetPassword, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSetPassword)
}

func (h *userHandler) GetSubscriptions(c *fiber.Ctx) error {
	page := parsePage(c, h.pageSize)

	views, total, err := h.userService.GetSubscriptions(c.Context(), middleware.GetViewer(c), page, c.QueryInt("recipes_limit", 0))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetSubscriptions, err)
	}

	authors := make([]domain.AuthorWithRecipesResponse, len(views))
	for i, v := range views {
		authors[i] = presenters.AuthorWithRecipes(v)
	}
	return presenters.SuccessResponse(c, presenters.Paginated(authors, page, total), fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	authorID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedSubscribe, err)
	}

	v, err := h.userService.Subscribe(c.Context(), middleware.GetViewer(c), authorID, c.QueryInt("recipes_limit", 0))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, presenters.AuthorWithRecipes(v), fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	authorID, err := parseID(c)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUnsubscribe, err)
	}

	if err := h.userService.Unsubscribe(c.Context(), middleware.GetViewer(c), authorID); err != nil {
		return presenters.Fail(c, domain.MessageFailedUnsubscribe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnsubscribe)
}
