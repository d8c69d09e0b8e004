package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/internal/metrics"
	"foodgram/internal/testutil"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendMail(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

type fixture struct {
	db      *gorm.DB
	service UserService
	jwt     jwt.JWTService
	mailer  *recordingMailer
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	m := metrics.New()
	log := zap.NewNop()
	relations := relation.NewRelationRepository(db)
	jwtService := jwt.NewJWTService("test-secret", time.Hour)
	mailer := &recordingMailer{}

	return fixture{
		db: db,
		service: NewUserService(
			NewUserRepository(db),
			recipe.NewRecipeRepository(db),
			relations,
			relation.NewRelationGuard(relations, m, log),
			jwtService,
			mailer,
			"http://foodgram.test",
			log,
		),
		jwt:    jwtService,
		mailer: mailer,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := domain.RegisterRequest{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Jamie",
		LastName:  "Cook",
		Password:  "long-enough",
	}
	user, err := f.service.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, req.Password, user.Password)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "cook@example.com", f.mailer.sent[0].to)
	assert.Contains(t, f.mailer.sent[0].body, "http://foodgram.test")

	_, err = f.service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := f.service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "long-enough"})
	require.NoError(t, err)
	id, role, err := f.jwt.GetUserIDByToken(res.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, domain.RoleUser, role)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister_MailFailureIsNotFatal(t *testing.T) {
	f := setup(t)
	f.mailer.err = errors.New("smtp down")

	_, err := f.service.Register(context.Background(), domain.RegisterRequest{
		Email: "a@example.com", Username: "a", FirstName: "A", LastName: "B", Password: "long-enough",
	})
	assert.NoError(t, err)
}

func TestSetPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, f.db, "alice")
	viewer := domain.Viewer{ID: user.ID, Role: user.Role}

	err := f.service.SetPassword(ctx, viewer, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, f.service.SetPassword(ctx, viewer, domain.SetPasswordRequest{
		CurrentPassword: testutil.TestPassword,
		NewPassword:     "brand-new-pass",
	}))

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, domain.LoginRequest{Email: user.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestGetUsers_IsSubscribed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	bob := testutil.CreateTestUser(t, f.db, "bob")
	carol := testutil.CreateTestUser(t, f.db, "carol")
	viewer := domain.Viewer{ID: alice.ID}

	_, err := f.service.Subscribe(ctx, viewer, bob.ID, 0)
	require.NoError(t, err)

	users, total, err := f.service.GetUsers(ctx, viewer, domain.PaginationRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 3)
	assert.False(t, users[0].IsSubscribed)
	assert.True(t, users[1].IsSubscribed)
	assert.False(t, users[2].IsSubscribed)

	got, err := f.service.GetUser(ctx, carol.ID, domain.Viewer{})
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)

	_, err = f.service.GetUser(ctx, carol.ID+100, viewer)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	me, err := f.service.Me(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.User.Username)
}

func TestSubscriptions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	bob := testutil.CreateTestUser(t, f.db, "bob")
	carol := testutil.CreateTestUser(t, f.db, "carol")
	viewer := domain.Viewer{ID: alice.ID}

	salt := testutil.CreateTestIngredient(t, f.db, "Salt", "g")
	for _, name := range []string{"One", "Two", "Three"} {
		testutil.CreateTestRecipe(t, f.db, bob, name, []testutil.Line{{Ingredient: salt, Quantity: 1}})
	}

	t.Run("self", func(t *testing.T) {
		_, err := f.service.Subscribe(ctx, viewer, alice.ID, 0)
		assert.ErrorIs(t, err, domain.ErrSelfSubscription)
	})

	t.Run("subscribe returns author with limited recipes", func(t *testing.T) {
		view, err := f.service.Subscribe(ctx, viewer, bob.ID, 2)
		require.NoError(t, err)
		assert.True(t, view.IsSubscribed)
		assert.Equal(t, int64(3), view.RecipesCount)
		require.Len(t, view.Recipes, 2)
		assert.Equal(t, "Three", view.Recipes[0].Name)
	})

	t.Run("twice", func(t *testing.T) {
		_, err := f.service.Subscribe(ctx, viewer, bob.ID, 0)
		assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := f.service.Subscribe(ctx, viewer, carol.ID+100, 0)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("list", func(t *testing.T) {
		_, err := f.service.Subscribe(ctx, viewer, carol.ID, 0)
		require.NoError(t, err)

		views, total, err := f.service.GetSubscriptions(ctx, viewer, domain.PaginationRequest{Page: 1, Limit: 10}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, views, 2)
		assert.Equal(t, "carol", views[0].User.Username)
		assert.Zero(t, views[0].RecipesCount)
		assert.Empty(t, views[0].Recipes)
		assert.Equal(t, "bob", views[1].User.Username)
		assert.Len(t, views[1].Recipes, 3)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		require.NoError(t, f.service.Unsubscribe(ctx, viewer, bob.ID))
		assert.ErrorIs(t, f.service.Unsubscribe(ctx, viewer, bob.ID), domain.ErrNotSubscribed)
	})
}
