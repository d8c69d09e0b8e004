package presenters

import (
	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/recipe"
	"foodgram/pkg/user"
)

func TagResponse(t *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func IngredientResponse(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func UserProfile(v user.UserView) domain.UserResponse {
	return domain.UserResponse{
		ID:           v.User.ID,
		Email:        v.User.Email,
		Username:     v.User.Username,
		FirstName:    v.User.FirstName,
		LastName:     v.User.LastName,
		IsSubscribed: v.IsSubscribed,
	}
}

func RegisteredUser(u *entities.User) domain.RegisterResponse {
	return domain.RegisterResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func RecipeShort(r *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func AuthorWithRecipes(v user.AuthorView) domain.AuthorWithRecipesResponse {
	recipes := make([]domain.RecipeShortResponse, len(v.Recipes))
	for i, r := range v.Recipes {
		recipes[i] = RecipeShort(r)
	}
	return domain.AuthorWithRecipesResponse{
		UserResponse: UserProfile(v.UserView),
		Recipes:      recipes,
		RecipesCount: v.RecipesCount,
	}
}

func RecipeDetail(v recipe.RecipeView) domain.RecipeResponse {
	r := v.Recipe

	tags := make([]domain.TagResponse, 0, len(r.Tags))
	for _, t := range r.Tags {
		if t.Tag != nil {
			tags = append(tags, TagResponse(t.Tag))
		}
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		if line.Ingredient == nil {
			continue
		}
		ingredients = append(ingredients, domain.RecipeIngredientResponse{
			ID:              line.Ingredient.ID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Quantity:        line.Quantity,
		})
	}

	var author domain.UserResponse
	if r.Author != nil {
		author = UserProfile(user.UserView{User: r.Author, IsSubscribed: v.AuthorSubscribed})
	}

	return domain.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func RecipeDetails(views []recipe.RecipeView) []domain.RecipeResponse {
	out := make([]domain.RecipeResponse, len(views))
	for i, v := range views {
		out[i] = RecipeDetail(v)
	}
	return out
}
