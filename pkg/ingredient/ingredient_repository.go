package ingredient

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		// GetIngredients returns ingredients whose name starts with prefix,
		// ignoring case. An empty prefix returns everything.
		GetIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ingredientRepository) GetIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	q := r.db.WithContext(ctx)
	if prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}
	if err := q.Order("name").Order("measurement_unit").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}
