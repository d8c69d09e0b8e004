package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		// Transaction runs fn against a repository bound to a single database transaction.
		Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error

		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id uint) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint, page domain.PaginationRequest) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)

		CountIngredients(ctx context.Context, ids []uint) (int64, error)
		CountTags(ctx context.Context, ids []uint) (int64, error)
		ClearComposition(ctx context.Context, recipeID uint) error
		CreateRecipeIngredient(ctx context.Context, line *entities.RecipeIngredient) error
		CreateRecipeTags(ctx context.Context, tags []*entities.RecipeTag) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("Author", "Ingredients", "Tags").Create(recipe).Error
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{ID: recipe.ID}).
		Updates(map[string]any{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&entities.RecipeIngredient{},
			&entities.RecipeTag{},
			&entities.Favorite{},
			&entities.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&entities.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_tags.id")
		}).
		Preload("Tags.Tag")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// filtered applies the recipe list query parameters. The favorite and cart
// filters only apply to authenticated viewers.
func (r *recipeRepository) filtered(filter domain.RecipeFilter, viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(filter.Tags) > 0 {
			db = db.Where("recipes.id IN (?)", r.db.
				Model(&entities.RecipeTag{}).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.Tags))
		}
		if filter.AuthorID != 0 {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if viewerID == 0 {
			return db
		}
		if filter.IsFavorited {
			db = db.Where("recipes.id IN (?)", r.db.
				Model(&entities.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", viewerID))
		}
		if filter.IsInShoppingCart {
			db = db.Where("recipes.id IN (?)", r.db.
				Model(&entities.ShoppingCart{}).
				Select("recipe_id").
				Where("user_id = ?", viewerID))
		}
		return db
	}
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint, page domain.PaginationRequest) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(r.filtered(filter, viewerID)).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(r.filtered(filter, viewerID), withDetails).
		Order("recipes.id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetRecipesByAuthor returns the newest recipes first. A limit below 1 means no limit.
func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *recipeRepository) CountIngredients(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) CountTags(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) ClearComposition(ctx context.Context, recipeID uint) error {
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&entities.RecipeTag{}).Error
}

func (r *recipeRepository) CreateRecipeIngredient(ctx context.Context, line *entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Omit("Ingredient").Create(line).Error
}

func (r *recipeRepository) CreateRecipeTags(ctx context.Context, tags []*entities.RecipeTag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Tag").Create(&tags).Error
}
