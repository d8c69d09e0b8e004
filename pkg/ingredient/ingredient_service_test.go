package ingredient

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIngredients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db))
	ctx := context.Background()

	testutil.CreateTestIngredient(t, db, "Sugar", "g")
	testutil.CreateTestIngredient(t, db, "salt", "g")
	testutil.CreateTestIngredient(t, db, "Salmon", "g")
	testutil.CreateTestIngredient(t, db, "Rock salt", "g")
	testutil.CreateTestIngredient(t, db, "100%_juice", "ml")

	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"100%_juice", "Rock salt", "Salmon", "Sugar", "salt"}},
		{"prefix ignores case", "SAL", []string{"Salmon", "salt"}},
		{"prefix only", "salt", []string{"salt"}},
		{"no match", "xyz", nil},
		{"wildcards are literal", "%", nil},
		{"percent inside name", "100%", []string{"100%_juice"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.GetIngredients(ctx, tc.query)
			require.NoError(t, err)
			var names []string
			for _, i := range got {
				names = append(names, i.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestGetIngredient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db))

	salt := testutil.CreateTestIngredient(t, db, "Salt", "g")

	got, err := service.GetIngredient(context.Background(), salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", got.MeasurementUnit)

	_, err = service.GetIngredient(context.Background(), salt.ID+1)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
