package migration

import (
	"fmt"

	"foodgram/entities"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Subscription{},
		&entities.Ingredient{},
		&entities.Tag{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %T: %w", model, err)
		}
	}
	return nil
}
