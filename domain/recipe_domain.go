package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("only the author can change this recipe")
	ErrDuplicateIngredient      = errors.New("ingredients must be unique")
	ErrInvalidQuantity          = errors.New("quantity must be at least 1")
	ErrDuplicateTag             = errors.New("tags must be unique")
	ErrInvalidImageFormat       = errors.New("invalid image format")
)

type (
	RecipeIngredientRequest struct {
		ID       uint `json:"id" validate:"required"`
		Quantity int  `json:"quantity"`
	}

	CreateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []uint                    `json:"tags" validate:"required,min=1"`
		Image       string                    `json:"image" validate:"required"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	}

	UpdateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []uint                    `json:"tags" validate:"required,min=1"`
		Image       string                    `json:"image" validate:"omitempty"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         uint
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeIngredientResponse struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Quantity        int    `json:"quantity"`
	}

	RecipeResponse struct {
		ID               uint                       `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeShortResponse struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}
)
