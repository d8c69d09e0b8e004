package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	migration "foodgram/cmd/database/migrate"
	"foodgram/domain"
	"foodgram/entities"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory database with the full schema.
// Each test gets its own database named after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// a single connection keeps the shared in-memory database alive
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

var (
	hashOnce sync.Once
	hashed   string
)

// TestPassword is the plain password of every user made by CreateTestUser.
const TestPassword = "s3cret-pass"

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		hashed = string(b)
	})
	return hashed
}

func CreateTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Password:  passwordHash(t),
		Role:      domain.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

func CreateTestTag(t *testing.T, db *gorm.DB, name, color, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

// Line is a (ingredient, quantity) pair for CreateTestRecipe.
type Line struct {
	Ingredient *entities.Ingredient
	Quantity   int
}

// CreateTestRecipe stores a recipe with its composition directly, bypassing
// the service layer.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, lines []Line, tags ...*entities.Tag) *entities.Recipe {
	t.Helper()
	recipe := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "https://images.test/recipes/" + strings.ReplaceAll(name, " ", "-") + ".jpg",
		Text:        "Cook " + name,
		CookingTime: 10,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	for _, l := range lines {
		row := &entities.RecipeIngredient{RecipeID: recipe.ID, IngredientID: l.Ingredient.ID, Quantity: l.Quantity}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to add ingredient to %s: %v", name, err)
		}
	}
	for _, tag := range tags {
		row := &entities.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to add tag to %s: %v", name, err)
		}
	}
	return recipe
}

// FakeImageStorage keeps uploads in memory.
type FakeImageStorage struct {
	mu       sync.Mutex
	Uploaded []string
	Deleted  []string
	Fail     error
}

// BadImage is rejected by FakeImageStorage with domain.ErrInvalidImageFormat.
const BadImage = "not-an-image"

func (f *FakeImageStorage) UploadBase64Image(_ context.Context, folder string, payload string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail != nil {
		return "", f.Fail
	}
	if payload == "" || payload == BadImage {
		return "", domain.ErrInvalidImageFormat
	}
	link := fmt.Sprintf("https://images.test/%s/%d.jpg", folder, len(f.Uploaded)+1)
	f.Uploaded = append(f.Uploaded, link)
	return link, nil
}

func (f *FakeImageStorage) DeleteByLink(_ context.Context, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, link)
	return nil
}
