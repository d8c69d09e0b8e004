package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type (
	UserView struct {
		User         *entities.User
		IsSubscribed bool
	}

	// AuthorView is a followed author with a preview of their recipes.
	AuthorView struct {
		UserView
		Recipes      []*entities.Recipe
		RecipesCount int64
	}

	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*entities.User, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, viewer domain.Viewer) (UserView, error)
		GetUser(ctx context.Context, userID uint, viewer domain.Viewer) (UserView, error)
		GetUsers(ctx context.Context, viewer domain.Viewer, page domain.PaginationRequest) ([]UserView, int64, error)
		SetPassword(ctx context.Context, viewer domain.Viewer, req domain.SetPasswordRequest) error

		GetSubscriptions(ctx context.Context, viewer domain.Viewer, page domain.PaginationRequest, recipesLimit int) ([]AuthorView, int64, error)
		Subscribe(ctx context.Context, viewer domain.Viewer, authorID uint, recipesLimit int) (AuthorView, error)
		Unsubscribe(ctx context.Context, viewer domain.Viewer, authorID uint) error
	}

	userService struct {
		userRepository     UserRepository
		recipeRepository   recipe.RecipeRepository
		relationRepository relation.RelationRepository
		relationGuard      relation.RelationGuard
		jwtService         jwt.JWTService
		mailer             mailing.Mailer
		appURL             string
		log                *zap.Logger
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationRepository relation.RelationRepository,
	relationGuard relation.RelationGuard,
	jwtService jwt.JWTService,
	mailer mailing.Mailer,
	appURL string,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepository:     userRepository,
		recipeRepository:   recipeRepository,
		relationRepository: relationRepository,
		relationGuard:      relationGuard,
		jwtService:         jwtService,
		mailer:             mailer,
		appURL:             appURL,
		log:                log,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*entities.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendMail(user.Email, "Welcome to Foodgram", mailing.WelcomeBody(s.appURL, user.Username)); err != nil {
		s.log.Warn("failed to send welcome mail", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID, user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Me(ctx context.Context, viewer domain.Viewer) (UserView, error) {
	user, err := s.userRepository.GetUserByID(ctx, viewer.ID)
	if err != nil {
		return UserView{}, err
	}
	return UserView{User: user}, nil
}

func (s *userService) GetUser(ctx context.Context, userID uint, viewer domain.Viewer) (UserView, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	views, err := s.userViews(ctx, viewer, []*entities.User{user})
	if err != nil {
		return UserView{}, err
	}
	return views[0], nil
}

func (s *userService) GetUsers(ctx context.Context, viewer domain.Viewer, page domain.PaginationRequest) ([]UserView, int64, error) {
	users, total, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.userViews(ctx, viewer, users)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *userService) SetPassword(ctx context.Context, viewer domain.Viewer, req domain.SetPasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, viewer.ID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hashed))
}

func (s *userService) GetSubscriptions(ctx context.Context, viewer domain.Viewer, page domain.PaginationRequest, recipesLimit int) ([]AuthorView, int64, error) {
	authors, total, err := s.userRepository.GetSubscribedAuthors(ctx, viewer.ID, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.authorViews(ctx, viewer, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *userService) Subscribe(ctx context.Context, viewer domain.Viewer, authorID uint, recipesLimit int) (AuthorView, error) {
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return AuthorView{}, err
	}

	outcome, err := s.relationGuard.AttemptCreate(ctx, relation.KindSubscription, viewer.ID, authorID)
	if err != nil {
		return AuthorView{}, err
	}
	if err := relation.ConflictError(relation.KindSubscription, outcome); err != nil {
		return AuthorView{}, err
	}

	views, err := s.authorViews(ctx, viewer, []*entities.User{author}, recipesLimit)
	if err != nil {
		return AuthorView{}, err
	}
	return views[0], nil
}

func (s *userService) Unsubscribe(ctx context.Context, viewer domain.Viewer, authorID uint) error {
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		return err
	}
	outcome, err := s.relationGuard.AttemptRemove(ctx, relation.KindSubscription, viewer.ID, authorID)
	if err != nil {
		return err
	}
	return relation.ConflictError(relation.KindSubscription, outcome)
}

func (s *userService) userViews(ctx context.Context, viewer domain.Viewer, users []*entities.User) ([]UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := s.relationRepository.Related(ctx, relation.KindSubscription, viewer.ID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = UserView{User: u, IsSubscribed: subscribed[u.ID]}
	}
	return views, nil
}

// authorViews attaches up to recipesLimit newest recipes per author. A limit
// below 1 attaches all of them.
func (s *userService) authorViews(ctx context.Context, viewer domain.Viewer, authors []*entities.User, recipesLimit int) ([]AuthorView, error) {
	users, err := s.userViews(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipeRepository.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]AuthorView, len(authors))
	for i, a := range authors {
		recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views[i] = AuthorView{
			UserView:     users[i],
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		}
	}
	return views, nil
}
