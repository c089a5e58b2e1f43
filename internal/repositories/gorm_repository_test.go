package repositories_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"recipeapi/internal/database"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Options{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash", IsActive: true}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(context.Background(), user))
	return user
}

func TestGORMUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "a@x.com")
	assert.NotEmpty(t, user.ID)

	err := repo.Create(ctx, &models.User{Email: "a@x.com", Password: "hash"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.IsActive)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	now := time.Now()
	got.Name = "Alice"
	got.IsActive = false
	got.LastLogin = &now
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", reloaded.Name)
	assert.False(t, reloaded.IsActive)
	assert.NotNil(t, reloaded.LastLogin)

	err = repo.Update(ctx, &models.User{ID: "missing", Email: "m@x.com"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_UpdateLastLoginOnlyTouchesLastLogin(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "a@x.com")

	// A stale copy carrying different values must not leak into the row.
	stale := *user
	stale.Name = "Stale"
	stale.Password = "stale-hash"

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, stale.ID, at))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLogin)
	assert.True(t, at.Equal(*reloaded.LastLogin))
	assert.Equal(t, "hash", reloaded.Password)
	assert.Equal(t, "", reloaded.Name)

	assert.ErrorIs(t, repo.UpdateLastLogin(ctx, "missing", at), repositories.ErrNotFound)
}

func TestGORMTokenRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMTokenRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "a@x.com")

	_, err := repo.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &models.AuthToken{Key: "k1", UserID: user.ID}))
	err = repo.Create(ctx, &models.AuthToken{Key: "k2", UserID: user.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicate, "one token per user")

	token, err := repo.GetByKey(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, token.User)
	assert.Equal(t, "a@x.com", token.User.Email)

	token, err = repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "k1", token.Key)

	_, err = repo.GetByKey(ctx, "nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMTagRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMTagRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	for _, name := range []string{"Breakfast", "Vegan", "Dessert"} {
		require.NoError(t, repo.Create(ctx, &models.Tag{Name: name, UserID: alice.ID}))
	}
	fruity := &models.Tag{Name: "Fruity", UserID: bob.ID}
	require.NoError(t, repo.Create(ctx, fruity))

	tags, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"Vegan", "Dessert", "Breakfast"}, names)

	owned, err := repo.FindOwned(ctx, alice.ID, []string{tags[0].ID, fruity.ID})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, tags[0].ID, owned[0].ID)

	empty, err := repo.FindOwned(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGORMIngredientRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMIngredientRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	require.NoError(t, repo.Create(ctx, &models.Ingredient{Name: "Kale", UserID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Ingredient{Name: "Salt", UserID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Ingredient{Name: "Vinegar", UserID: bob.ID}))

	ingredients, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Salt", ingredients[0].Name)
	assert.Equal(t, "Kale", ingredients[1].Name)

	ingredients, err = repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, ingredients)
	assert.Empty(t, ingredients)
}

func TestGORMRecipeRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMRecipeRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	vegan := models.Tag{Name: "Vegan", UserID: alice.ID}
	dinner := models.Tag{Name: "Dinner", UserID: alice.ID}
	require.NoError(t, tagRepo.Create(ctx, &vegan))
	require.NoError(t, tagRepo.Create(ctx, &dinner))
	kale := models.Ingredient{Name: "Kale", UserID: alice.ID}
	require.NoError(t, ingredientRepo.Create(ctx, &kale))

	recipe := &models.Recipe{
		UserID:      alice.ID,
		Title:       "Kale salad",
		TimeMinutes: 10,
		Price:       550,
		Tags:        []models.Tag{vegan},
		Ingredients: []models.Ingredient{kale},
	}
	require.NoError(t, repo.Create(ctx, recipe))
	assert.NotEmpty(t, recipe.ID)

	got, err := repo.GetByID(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kale salad", got.Title)
	assert.Equal(t, models.Price(550), got.Price)
	assert.Equal(t, "", got.Link)
	assert.Equal(t, []string{vegan.ID}, got.TagIDs())
	assert.Equal(t, []string{kale.ID}, got.IngredientIDs())

	_, err = repo.GetByID(ctx, bob.ID, recipe.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Replace tags, keep ingredients.
	got.Title = "Kale bowl"
	got.Price = 99999
	require.NoError(t, repo.Update(ctx, got, []models.Tag{vegan, dinner}, nil))
	got, err = repo.GetByID(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kale bowl", got.Title)
	assert.Equal(t, models.Price(99999), got.Price)
	assert.Equal(t, []string{vegan.ID, dinner.ID}, got.TagIDs())
	assert.Equal(t, []string{kale.ID}, got.IngredientIDs())

	// An empty set clears.
	require.NoError(t, repo.Update(ctx, got, nil, []models.Ingredient{}))
	got, err = repo.GetByID(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)
	assert.Empty(t, got.Ingredients)

	foreign := &models.Recipe{ID: recipe.ID, UserID: bob.ID, Title: "Stolen"}
	assert.ErrorIs(t, repo.Update(ctx, foreign, nil, nil), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, bob.ID, recipe.ID), repositories.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, alice.ID, recipe.ID))
	_, err = repo.GetByID(ctx, alice.ID, recipe.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Tags survive the recipe.
	tags, err := tagRepo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestGORMRecipeRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMRecipeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		r := &models.Recipe{UserID: alice.ID, Title: title, TimeMinutes: 5, Price: 100, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, repo.Create(ctx, &models.Recipe{UserID: bob.ID, Title: "Bob's", TimeMinutes: 5, Price: 100}))

	recipes, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "Third", recipes[0].Title)
	assert.Equal(t, "First", recipes[2].Title)
}

func TestUserDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@x.com")

	require.NoError(t, repositories.NewGORMTokenRepository(db).Create(ctx, &models.AuthToken{Key: "k1", UserID: alice.ID}))
	require.NoError(t, repositories.NewGORMTagRepository(db).Create(ctx, &models.Tag{Name: "Vegan", UserID: alice.ID}))
	require.NoError(t, repositories.NewGORMRecipeRepository(db).Create(ctx, &models.Recipe{UserID: alice.ID, Title: "Soup", Price: 100}))

	require.NoError(t, db.Delete(&models.User{}, "id = ?", alice.ID).Error)

	for _, model := range []any{&models.AuthToken{}, &models.Tag{}, &models.Recipe{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("user_id = ?", alice.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}
