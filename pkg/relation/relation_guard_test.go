package relation

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/testutil"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	guard   RelationGuard
	repo    RelationRepository
	metrics *metrics.Metrics
	alice   *entities.User
	bob     *entities.User
	recipe  *entities.Recipe
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	m := metrics.New()
	repo := NewRelationRepository(db)

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	salt := testutil.CreateTestIngredient(t, db, "Salt", "g")
	recipe := testutil.CreateTestRecipe(t, db, bob, "Soup", []testutil.Line{{Ingredient: salt, Quantity: 5}})

	return fixture{
		db:      db,
		guard:   NewRelationGuard(repo, m, zap.NewNop()),
		repo:    repo,
		metrics: m,
		alice:   alice,
		bob:     bob,
		recipe:  recipe,
	}
}

func TestAttemptCreate_SelfSubscriptionRejected(t *testing.T) {
	f := setup(t)

	outcome, err := f.guard.AttemptCreate(context.Background(), KindSubscription, f.alice.ID, f.alice.ID)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)
	assert.Equal(t, Rejected, outcome)

	var count int64
	require.NoError(t, f.db.Model(&entities.Subscription{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(
		f.metrics.RelationAttempts.WithLabelValues(string(KindSubscription), string(Rejected))))
}

func TestAttemptCreate_DuplicateIsAlreadyExists(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := []struct {
		kind     Kind
		objectID uint
		model    any
	}{
		{KindFavorite, f.recipe.ID, &entities.Favorite{}},
		{KindShoppingCart, f.recipe.ID, &entities.ShoppingCart{}},
		{KindSubscription, f.bob.ID, &entities.Subscription{}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			outcome, err := f.guard.AttemptCreate(ctx, tc.kind, f.alice.ID, tc.objectID)
			require.NoError(t, err)
			assert.Equal(t, Created, outcome)

			outcome, err = f.guard.AttemptCreate(ctx, tc.kind, f.alice.ID, tc.objectID)
			require.NoError(t, err)
			assert.Equal(t, AlreadyExists, outcome)
			assert.ErrorIs(t, ConflictError(tc.kind, outcome), conflictFor(tc.kind))

			var count int64
			require.NoError(t, f.db.Model(tc.model).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}

func conflictFor(kind Kind) error {
	switch kind {
	case KindFavorite:
		return domain.ErrAlreadyFavorited
	case KindShoppingCart:
		return domain.ErrAlreadyInCart
	default:
		return domain.ErrAlreadySubscribed
	}
}

func TestAttemptCreate_RowWrittenElsewhere(t *testing.T) {
	f := setup(t)

	// a concurrent request that already won the race
	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.alice.ID, RecipeID: f.recipe.ID}).Error)

	outcome, err := f.guard.AttemptCreate(context.Background(), KindFavorite, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyExists, outcome)
}

func TestAttemptRemove_TwiceIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.guard.AttemptCreate(ctx, KindShoppingCart, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)

	outcome, err := f.guard.AttemptRemove(ctx, KindShoppingCart, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)
	assert.NoError(t, ConflictError(KindShoppingCart, outcome))

	outcome, err = f.guard.AttemptRemove(ctx, KindShoppingCart, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, NotFound, outcome)
	assert.ErrorIs(t, ConflictError(KindShoppingCart, outcome), domain.ErrNotInCart)
}

func TestAttemptRemove_OnlyOwnRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.guard.AttemptCreate(ctx, KindFavorite, f.bob.ID, f.recipe.ID)
	require.NoError(t, err)

	outcome, err := f.guard.AttemptRemove(ctx, KindFavorite, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, NotFound, outcome)

	related, err := f.repo.Related(ctx, KindFavorite, f.bob.ID, []uint{f.recipe.ID})
	require.NoError(t, err)
	assert.True(t, related[f.recipe.ID])
}

func TestRelated(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	salt := testutil.CreateTestIngredient(t, f.db, "Pepper", "g")
	other := testutil.CreateTestRecipe(t, f.db, f.bob, "Stew", []testutil.Line{{Ingredient: salt, Quantity: 1}})

	_, err := f.guard.AttemptCreate(ctx, KindFavorite, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)

	related, err := f.repo.Related(ctx, KindFavorite, f.alice.ID, []uint{f.recipe.ID, other.ID})
	require.NoError(t, err)
	assert.True(t, related[f.recipe.ID])
	assert.False(t, related[other.ID])

	anonymous, err := f.repo.Related(ctx, KindFavorite, 0, []uint{f.recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, anonymous)
}

func TestUnknownKind(t *testing.T) {
	f := setup(t)

	_, err := f.guard.AttemptCreate(context.Background(), Kind("bookmark"), f.alice.ID, f.recipe.ID)
	assert.ErrorIs(t, err, domain.ErrUnknownRelationKind)
}
