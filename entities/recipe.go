package entities

type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Image       string `gorm:"not null" json:"image"`
	Text        string `gorm:"type:text;not null" json:"text"`
	CookingTime int    `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`

	Author      *User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Tags        []*RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Timestamp
}

type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Quantity     int  `gorm:"not null;check:quantity >= 1" json:"quantity"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

type RecipeTag struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_recipe_tag;index" json:"tag_id"`

	Tag *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

type Favorite struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}

type ShoppingCart struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}
