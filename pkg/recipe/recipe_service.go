package recipe

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/relation"

	"go.uber.org/zap"
)

const imageFolder = "recipes"

type (
	// RecipeView is a recipe together with the viewer dependent flags.
	RecipeView struct {
		Recipe           *entities.Recipe
		IsFavorited      bool
		IsInShoppingCart bool
		AuthorSubscribed bool
	}

	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewer domain.Viewer, page domain.PaginationRequest) ([]RecipeView, int64, error)
		GetRecipe(ctx context.Context, recipeID uint, viewer domain.Viewer) (RecipeView, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, viewer domain.Viewer) (RecipeView, error)
		UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, viewer domain.Viewer) (RecipeView, error)
		DeleteRecipe(ctx context.Context, recipeID uint, viewer domain.Viewer) error

		AddFavorite(ctx context.Context, recipeID uint, viewer domain.Viewer) (*entities.Recipe, error)
		RemoveFavorite(ctx context.Context, recipeID uint, viewer domain.Viewer) error
		AddToShoppingCart(ctx context.Context, recipeID uint, viewer domain.Viewer) (*entities.Recipe, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID uint, viewer domain.Viewer) error
	}

	recipeService struct {
		recipeRepository   RecipeRepository
		relationRepository relation.RelationRepository
		relationGuard      relation.RelationGuard
		composer           RecipeComposer
		images             storage.ImageStorage
		metrics            *metrics.Metrics
		log                *zap.Logger
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	relationRepository relation.RelationRepository,
	relationGuard relation.RelationGuard,
	composer RecipeComposer,
	images storage.ImageStorage,
	m *metrics.Metrics,
	log *zap.Logger,
) RecipeService {
	return &recipeService{
		recipeRepository:   recipeRepository,
		relationRepository: relationRepository,
		relationGuard:      relationGuard,
		composer:           composer,
		images:             images,
		metrics:            m,
		log:                log,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewer domain.Viewer, page domain.PaginationRequest) ([]RecipeView, int64, error) {
	recipes, total, err := s.recipeRepository.GetRecipes(ctx, filter, viewer.ID, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.annotate(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID uint, viewer domain.Viewer) (RecipeView, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return RecipeView{}, err
	}
	views, err := s.annotate(ctx, viewer, []*entities.Recipe{recipe})
	if err != nil {
		return RecipeView{}, err
	}
	return views[0], nil
}

// annotate resolves is_favorited, is_in_shopping_cart and the author's
// is_subscribed flag with one query per flag.
func (s *recipeService) annotate(ctx context.Context, viewer domain.Viewer, recipes []*entities.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited, err := s.relationRepository.Related(ctx, relation.KindFavorite, viewer.ID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.relationRepository.Related(ctx, relation.KindShoppingCart, viewer.ID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.relationRepository.Related(ctx, relation.KindSubscription, viewer.ID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, len(recipes))
	for i, r := range recipes {
		views[i] = RecipeView{
			Recipe:           r,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorSubscribed: subscribed[r.AuthorID],
		}
	}
	return views, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, viewer domain.Viewer) (RecipeView, error) {
	comp, err := s.composer.Validate(req.Ingredients, req.Tags)
	if err != nil {
		s.observe("create", err)
		return RecipeView{}, err
	}

	image, err := s.images.UploadBase64Image(ctx, imageFolder, req.Image)
	if err != nil {
		return RecipeView{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    viewer.ID,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		return s.composer.Apply(ctx, repo, recipe.ID, comp, false)
	})
	s.observe("create", err)
	if err != nil {
		s.discardImage(ctx, image)
		return RecipeView{}, err
	}

	s.log.Info("recipe created", zap.Uint("recipe_id", recipe.ID), zap.Uint("author_id", viewer.ID))
	return s.GetRecipe(ctx, recipe.ID, viewer)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, viewer domain.Viewer) (RecipeView, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return RecipeView{}, err
	}
	if recipe.AuthorID != viewer.ID && !viewer.IsAdmin() {
		return RecipeView{}, domain.ErrUnauthorizedRecipeAccess
	}

	comp, err := s.composer.Validate(req.Ingredients, req.Tags)
	if err != nil {
		s.observe("update", err)
		return RecipeView{}, err
	}

	oldImage := recipe.Image
	newImage := ""
	if req.Image != "" {
		newImage, err = s.images.UploadBase64Image(ctx, imageFolder, req.Image)
		if err != nil {
			return RecipeView{}, err
		}
		recipe.Image = newImage
	}
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.UpdateRecipe(ctx, recipe); err != nil {
			return err
		}
		return s.composer.Apply(ctx, repo, recipe.ID, comp, true)
	})
	s.observe("update", err)
	if err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		return RecipeView{}, err
	}
	if newImage != "" {
		s.discardImage(ctx, oldImage)
	}

	return s.GetRecipe(ctx, recipe.ID, viewer)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID uint, viewer domain.Viewer) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != viewer.ID && !viewer.IsAdmin() {
		return domain.ErrUnauthorizedRecipeAccess
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	s.discardImage(ctx, recipe.Image)
	s.log.Info("recipe deleted", zap.Uint("recipe_id", recipeID), zap.Uint("user_id", viewer.ID))
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID uint, viewer domain.Viewer) (*entities.Recipe, error) {
	return s.addRelation(ctx, relation.KindFavorite, recipeID, viewer)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID uint, viewer domain.Viewer) error {
	return s.removeRelation(ctx, relation.KindFavorite, recipeID, viewer)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID uint, viewer domain.Viewer) (*entities.Recipe, error) {
	return s.addRelation(ctx, relation.KindShoppingCart, recipeID, viewer)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID uint, viewer domain.Viewer) error {
	return s.removeRelation(ctx, relation.KindShoppingCart, recipeID, viewer)
}

func (s *recipeService) addRelation(ctx context.Context, kind relation.Kind, recipeID uint, viewer domain.Viewer) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	outcome, err := s.relationGuard.AttemptCreate(ctx, kind, viewer.ID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := relation.ConflictError(kind, outcome); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) removeRelation(ctx context.Context, kind relation.Kind, recipeID uint, viewer domain.Viewer) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	outcome, err := s.relationGuard.AttemptRemove(ctx, kind, viewer.ID, recipeID)
	if err != nil {
		return err
	}
	return relation.ConflictError(kind, outcome)
}

func (s *recipeService) observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.RecipeCompositions.WithLabelValues(operation, result).Inc()
}

func (s *recipeService) discardImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	if err := s.images.DeleteByLink(ctx, link); err != nil {
		s.log.Warn("failed to delete image", zap.String("link", link), zap.Error(err))
	}
}
