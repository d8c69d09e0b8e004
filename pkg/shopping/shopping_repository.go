package shopping

import (
	"context"

	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	// CartLine is a single recipe ingredient line of a recipe in the cart.
	CartLine struct {
		Name            string
		MeasurementUnit string
		Quantity        int
	}

	ShoppingRepository interface {
		GetCartLines(ctx context.Context, userID uint) ([]CartLine, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) GetCartLines(ctx context.Context, userID uint) ([]CartLine, error) {
	var lines []CartLine
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.quantity AS quantity").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("recipe_ingredients.id").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
