package recipe

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/testutil"
	"foodgram/pkg/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db      *gorm.DB
	service RecipeService
	images  *testutil.FakeImageStorage
	author  *entities.User
	other   *entities.User
	salt    *entities.Ingredient
	water   *entities.Ingredient
	lunch   *entities.Tag
	dinner  *entities.Tag
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	m := metrics.New()
	log := zap.NewNop()
	relations := relation.NewRelationRepository(db)
	images := &testutil.FakeImageStorage{}

	return serviceFixture{
		db: db,
		service: NewRecipeService(
			NewRecipeRepository(db),
			relations,
			relation.NewRelationGuard(relations, m, log),
			NewRecipeComposer(),
			images,
			m,
			log,
		),
		images: images,
		author: testutil.CreateTestUser(t, db, "author"),
		other:  testutil.CreateTestUser(t, db, "other"),
		salt:   testutil.CreateTestIngredient(t, db, "Salt", "g"),
		water:  testutil.CreateTestIngredient(t, db, "Water", "ml"),
		lunch:  testutil.CreateTestTag(t, db, "Lunch", "#00FF00", "lunch"),
		dinner: testutil.CreateTestTag(t, db, "Dinner", "#0000FF", "dinner"),
	}
}

func (f serviceFixture) createRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.water.ID, Quantity: 500},
			{ID: f.salt.ID, Quantity: 5},
		},
		Tags:        []uint{f.lunch.ID},
		Image:       "data:image/png;base64,AAAA",
		Name:        "Brine",
		Text:        "Dissolve salt in water.",
		CookingTime: 5,
	}
}

func viewerOf(u *entities.User) domain.Viewer {
	return domain.Viewer{ID: u.ID, Role: u.Role}
}

func TestCreateRecipe(t *testing.T) {
	f := newServiceFixture(t)

	view, err := f.service.CreateRecipe(context.Background(), f.createRequest(), viewerOf(f.author))
	require.NoError(t, err)

	r := view.Recipe
	assert.Equal(t, "Brine", r.Name)
	assert.Equal(t, f.author.ID, r.AuthorID)
	require.NotNil(t, r.Author)
	assert.Equal(t, "author", r.Author.Username)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "Water", r.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 500, r.Ingredients[0].Quantity)
	require.Len(t, r.Tags, 1)
	assert.Equal(t, "lunch", r.Tags[0].Tag.Slug)
	assert.Equal(t, f.images.Uploaded[0], r.Image)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
}

func TestCreateRecipe_InvalidCompositionWritesNothing(t *testing.T) {
	f := newServiceFixture(t)

	req := f.createRequest()
	req.Ingredients = append(req.Ingredients, domain.RecipeIngredientRequest{ID: f.salt.ID, Quantity: 1})

	_, err := f.service.CreateRecipe(context.Background(), req, viewerOf(f.author))
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	assert.Empty(t, f.images.Uploaded)

	var count int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipe_UnknownIngredientRollsBack(t *testing.T) {
	f := newServiceFixture(t)

	req := f.createRequest()
	req.Ingredients[1].ID = f.salt.ID + 100

	_, err := f.service.CreateRecipe(context.Background(), req, viewerOf(f.author))
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	var count int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, f.images.Uploaded, f.images.Deleted)
}

func TestCreateRecipe_BadImage(t *testing.T) {
	f := newServiceFixture(t)

	req := f.createRequest()
	req.Image = testutil.BadImage

	_, err := f.service.CreateRecipe(context.Background(), req, viewerOf(f.author))
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
}

func TestUpdateRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), viewerOf(f.author))
	require.NoError(t, err)
	oldImage := created.Recipe.Image

	update := domain.UpdateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.salt.ID, Quantity: 7}},
		Tags:        []uint{f.dinner.ID, f.lunch.ID},
		Image:       "data:image/png;base64,BBBB",
		Name:        "Salty",
		Text:        "Just salt.",
		CookingTime: 1,
	}

	t.Run("only the author", func(t *testing.T) {
		_, err := f.service.UpdateRecipe(ctx, created.Recipe.ID, update, viewerOf(f.other))
		assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	})

	t.Run("author replaces everything", func(t *testing.T) {
		view, err := f.service.UpdateRecipe(ctx, created.Recipe.ID, update, viewerOf(f.author))
		require.NoError(t, err)

		r := view.Recipe
		assert.Equal(t, "Salty", r.Name)
		assert.Equal(t, 1, r.CookingTime)
		require.Len(t, r.Ingredients, 1)
		assert.Equal(t, f.salt.ID, r.Ingredients[0].IngredientID)
		assert.Equal(t, 7, r.Ingredients[0].Quantity)
		assert.Len(t, r.Tags, 2)
		assert.NotEqual(t, oldImage, r.Image)
		assert.Contains(t, f.images.Deleted, oldImage)
	})

	t.Run("keeps image when omitted", func(t *testing.T) {
		current, err := f.service.GetRecipe(ctx, created.Recipe.ID, viewerOf(f.author))
		require.NoError(t, err)

		update.Image = ""
		view, err := f.service.UpdateRecipe(ctx, created.Recipe.ID, update, viewerOf(f.author))
		require.NoError(t, err)
		assert.Equal(t, current.Recipe.Image, view.Recipe.Image)
	})

	t.Run("admin may edit", func(t *testing.T) {
		admin := domain.Viewer{ID: f.other.ID, Role: domain.RoleAdmin}
		_, err := f.service.UpdateRecipe(ctx, created.Recipe.ID, update, admin)
		assert.NoError(t, err)
	})
}

func TestDeleteRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), viewerOf(f.author))
	require.NoError(t, err)
	_, err = f.service.AddFavorite(ctx, created.Recipe.ID, viewerOf(f.other))
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, created.Recipe.ID, viewerOf(f.other)), domain.ErrUnauthorizedRecipeAccess)
	require.NoError(t, f.service.DeleteRecipe(ctx, created.Recipe.ID, viewerOf(f.author)))

	_, err = f.service.GetRecipe(ctx, created.Recipe.ID, viewerOf(f.author))
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	var favorites, lines int64
	require.NoError(t, f.db.Model(&entities.Favorite{}).Count(&favorites).Error)
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Count(&lines).Error)
	assert.Zero(t, favorites)
	assert.Zero(t, lines)
	assert.Contains(t, f.images.Deleted, created.Recipe.Image)
}

func TestGetRecipes_FiltersAndFlags(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	soup := testutil.CreateTestRecipe(t, f.db, f.author, "Soup", []testutil.Line{{Ingredient: f.water, Quantity: 1}}, f.lunch)
	stew := testutil.CreateTestRecipe(t, f.db, f.author, "Stew", []testutil.Line{{Ingredient: f.salt, Quantity: 1}}, f.dinner)
	mine := testutil.CreateTestRecipe(t, f.db, f.other, "Mine", []testutil.Line{{Ingredient: f.salt, Quantity: 2}}, f.lunch, f.dinner)

	viewer := viewerOf(f.other)
	_, err := f.service.AddFavorite(ctx, soup.ID, viewer)
	require.NoError(t, err)
	_, err = f.service.AddToShoppingCart(ctx, stew.ID, viewer)
	require.NoError(t, err)

	page := domain.PaginationRequest{Page: 1, Limit: 10}

	all, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, viewer, page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, []uint{mine.ID, stew.ID, soup.ID}, []uint{all[0].Recipe.ID, all[1].Recipe.ID, all[2].Recipe.ID})
	assert.True(t, all[2].IsFavorited)
	assert.True(t, all[1].IsInShoppingCart)
	assert.False(t, all[0].IsFavorited)

	lunch, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"lunch"}}, viewer, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, lunch, 2)

	either, _, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"lunch", "dinner"}}, viewer, page)
	require.NoError(t, err)
	assert.Len(t, either, 3)

	favorites, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, viewer, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, soup.ID, favorites[0].Recipe.ID)

	cart, _, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsInShoppingCart: true}, viewer, page)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, stew.ID, cart[0].Recipe.ID)

	byAuthor, _, err := f.service.GetRecipes(ctx, domain.RecipeFilter{AuthorID: f.other.ID}, viewer, page)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, mine.ID, byAuthor[0].Recipe.ID)

	// anonymous viewers ignore the personal filters
	anon, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, domain.Viewer{}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, v := range anon {
		assert.False(t, v.IsFavorited)
	}

	paged, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, viewer, domain.PaginationRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	assert.Equal(t, soup.ID, paged[0].Recipe.ID)
}

func TestFavoriteAndCartConflicts(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	viewer := viewerOf(f.other)

	soup := testutil.CreateTestRecipe(t, f.db, f.author, "Soup", []testutil.Line{{Ingredient: f.water, Quantity: 1}})

	r, err := f.service.AddFavorite(ctx, soup.ID, viewer)
	require.NoError(t, err)
	assert.Equal(t, "Soup", r.Name)

	_, err = f.service.AddFavorite(ctx, soup.ID, viewer)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	require.NoError(t, f.service.RemoveFavorite(ctx, soup.ID, viewer))
	assert.ErrorIs(t, f.service.RemoveFavorite(ctx, soup.ID, viewer), domain.ErrNotFavorited)

	assert.ErrorIs(t, f.service.RemoveFromShoppingCart(ctx, soup.ID, viewer), domain.ErrNotInCart)
	_, err = f.service.AddToShoppingCart(ctx, soup.ID, viewer)
	require.NoError(t, err)
	_, err = f.service.AddToShoppingCart(ctx, soup.ID, viewer)
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)

	_, err = f.service.AddFavorite(ctx, soup.ID+100, viewer)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetRecipe_AuthorSubscribed(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	soup := testutil.CreateTestRecipe(t, f.db, f.author, "Soup", []testutil.Line{{Ingredient: f.water, Quantity: 1}})
	require.NoError(t, f.db.Create(&entities.Subscription{UserID: f.other.ID, AuthorID: f.author.ID}).Error)

	view, err := f.service.GetRecipe(ctx, soup.ID, viewerOf(f.other))
	require.NoError(t, err)
	assert.True(t, view.AuthorSubscribed)

	view, err = f.service.GetRecipe(ctx, soup.ID, domain.Viewer{})
	require.NoError(t, err)
	assert.False(t, view.AuthorSubscribed)
}
