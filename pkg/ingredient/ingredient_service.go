package ingredient

import (
	"context"
	"strings"

	"foodgram/entities"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, name string) ([]*entities.Ingredient, error)
		GetIngredient(ctx context.Context, id uint) (*entities.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, name string) ([]*entities.Ingredient, error) {
	return s.ingredientRepository.GetIngredients(ctx, strings.TrimSpace(name))
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (*entities.Ingredient, error) {
	return s.ingredientRepository.GetIngredientByID(ctx, id)
}
