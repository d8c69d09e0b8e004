package recipe

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	IngredientLine struct {
		IngredientID uint
		Quantity     int
	}

	// Composition is a validated ingredient and tag set, ready to be written.
	Composition struct {
		Lines  []IngredientLine
		TagIDs []uint
	}

	RecipeComposer interface {
		Validate(ingredients []domain.RecipeIngredientRequest, tagIDs []uint) (Composition, error)
		// Apply writes comp for recipeID. repo must be bound to a transaction so
		// that a failure part way leaves the previous composition untouched.
		Apply(ctx context.Context, repo RecipeRepository, recipeID uint, comp Composition, replace bool) error
	}

	recipeComposer struct{}
)

func NewRecipeComposer() RecipeComposer {
	return recipeComposer{}
}

// Validate checks lines in input order and reports the first problem found.
func (recipeComposer) Validate(ingredients []domain.RecipeIngredientRequest, tagIDs []uint) (Composition, error) {
	comp := Composition{
		Lines:  make([]IngredientLine, 0, len(ingredients)),
		TagIDs: make([]uint, 0, len(tagIDs)),
	}

	seen := make(map[uint]struct{}, len(ingredients))
	for _, in := range ingredients {
		if _, ok := seen[in.ID]; ok {
			return Composition{}, domain.ErrDuplicateIngredient
		}
		if in.Quantity < 1 {
			return Composition{}, domain.ErrInvalidQuantity
		}
		seen[in.ID] = struct{}{}
		comp.Lines = append(comp.Lines, IngredientLine{IngredientID: in.ID, Quantity: in.Quantity})
	}

	seenTags := make(map[uint]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seenTags[id]; ok {
			return Composition{}, domain.ErrDuplicateTag
		}
		seenTags[id] = struct{}{}
		comp.TagIDs = append(comp.TagIDs, id)
	}

	return comp, nil
}

func (c Composition) IngredientIDs() []uint {
	ids := make([]uint, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.IngredientID
	}
	return ids
}

func (recipeComposer) Apply(ctx context.Context, repo RecipeRepository, recipeID uint, comp Composition, replace bool) error {
	if len(comp.Lines) > 0 {
		n, err := repo.CountIngredients(ctx, comp.IngredientIDs())
		if err != nil {
			return err
		}
		if n != int64(len(comp.Lines)) {
			return domain.ErrIngredientNotFound
		}
	}
	if len(comp.TagIDs) > 0 {
		n, err := repo.CountTags(ctx, comp.TagIDs)
		if err != nil {
			return err
		}
		if n != int64(len(comp.TagIDs)) {
			return domain.ErrTagNotFound
		}
	}

	if replace {
		if err := repo.ClearComposition(ctx, recipeID); err != nil {
			return fmt.Errorf("clear composition: %w", err)
		}
	}

	for _, line := range comp.Lines {
		err := repo.CreateRecipeIngredient(ctx, &entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateIngredient
			}
			return fmt.Errorf("add ingredient %d: %w", line.IngredientID, err)
		}
	}

	tags := make([]*entities.RecipeTag, len(comp.TagIDs))
	for i, id := range comp.TagIDs {
		tags[i] = &entities.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := repo.CreateRecipeTags(ctx, tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateTag
		}
		return fmt.Errorf("add tags: %w", err)
	}
	return nil
}
