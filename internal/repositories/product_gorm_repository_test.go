package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRepo opens a fresh in-memory SQLite database for the test and
// returns the repository plus a persisted owner user.
func setupRepo(t *testing.T) (*repositories.GORMProductRepository, models.User, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductImage{}))

	owner := models.User{Email: "owner@example.com", FullName: "Owner", IsActive: true, Roles: []string{"user"}}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(&owner))

	return repositories.NewGORMProductRepository(db), owner, db
}

func newProduct(owner models.User, title string, images ...string) *models.Product {
	return &models.Product{
		Title:   title,
		Price:   50,
		Stock:   5,
		Sizes:   []string{"M", "L"},
		Gender:  "men",
		Tags:    []string{"shirt"},
		Images:  models.ImageSet(images),
		OwnerID: owner.ID,
		Owner:   owner,
	}
}

func TestGORMProductRepository_CreateNormalizesSlug(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	product := newProduct(owner, "Men's Chill Crew Neck Sweatshirt")
	require.NoError(t, repo.Create(product))
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "mens_chill_crew_neck_sweatshirt", product.Slug)

	// An explicit slug is normalized too, even when already supplied.
	other := newProduct(owner, "Other Product")
	other.Slug = "Custom SLUG"
	require.NoError(t, repo.Create(other))
	assert.Equal(t, "custom_slug", other.Slug)
}

func TestGORMProductRepository_GetByTerm(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	product := newProduct(owner, "Blue Shirt", "a.jpg", "b.jpg")
	require.NoError(t, repo.Create(product))

	// The same product resolves through all three addressing schemes.
	for _, term := range []string{product.ID, "blue_shirt", "BLUE shirt"} {
		found, err := repo.GetByTerm(term)
		require.NoError(t, err, "term %q", term)
		assert.Equal(t, product.ID, found.ID, "term %q", term)
		assert.Len(t, found.Images, 2, "images must be eagerly loaded for term %q", term)
		assert.Equal(t, owner.ID, found.Owner.ID, "owner must be eagerly loaded for term %q", term)
	}

	_, err := repo.GetByTerm("nonexistent")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestGORMProductRepository_GetByTermHexSlug(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	// A 32-hex slug parses as a hyphenless UUID; it must still resolve
	// through the slug path rather than a doomed primary-key lookup.
	product := newProduct(owner, "Limited Drop")
	product.Slug = "b1946ac92492d2347c6235b4d2611184"
	require.NoError(t, repo.Create(product))

	found, err := repo.GetByTerm("b1946ac92492d2347c6235b4d2611184")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestGORMProductRepository_CreateConflictLeavesStoreUnchanged(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	require.NoError(t, repo.Create(newProduct(owner, "Blue Shirt")))

	err := repo.Create(newProduct(owner, "Blue Shirt"))
	assert.ErrorIs(t, err, repositories.ErrConflict)

	products, err := repo.List(10, 0)
	require.NoError(t, err)
	assert.Len(t, products, 1, "the failed insert must not leave a partial row")
}

func TestGORMProductRepository_ListPagination(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	for i := 1; i <= 4; i++ {
		require.NoError(t, repo.Create(newProduct(owner, fmt.Sprintf("Product %d", i))))
	}

	first, err := repo.List(2, 0)
	require.NoError(t, err)
	second, err := repo.List(2, 2)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)

	// The two windows partition the store: disjoint and covering.
	seen := map[string]bool{}
	for _, p := range append(first, second...) {
		assert.False(t, seen[p.ID], "product %s appeared in both pages", p.Title)
		seen[p.ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestGORMProductRepository_SaveReplacesImages(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	product := newProduct(owner, "Blue Shirt", "a.jpg", "b.jpg")
	require.NoError(t, repo.Create(product))

	loaded, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	loaded.Images = models.ImageSet([]string{"c.jpg"})
	require.NoError(t, repo.Save(loaded, true))

	reloaded, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Images, 1, "old images must be gone, not merged")
	assert.Equal(t, "c.jpg", reloaded.Images[0].URL)
}

func TestGORMProductRepository_SaveRollsBackOnConflict(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	product := newProduct(owner, "Blue Shirt", "a.jpg", "b.jpg")
	require.NoError(t, repo.Create(product))
	require.NoError(t, repo.Create(newProduct(owner, "Other Product")))

	// Replace the images and collide on the unique title in the same
	// save: the whole transaction must roll back.
	loaded, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	loaded.Title = "Other Product"
	loaded.Slug = ""
	loaded.Images = models.ImageSet([]string{"c.jpg"})

	err = repo.Save(loaded, true)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.Empty(t, loaded.Slug, "a failed save must not rewrite the caller's slug")

	reloaded, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Shirt", reloaded.Title)
	urls := make([]string, 0, len(reloaded.Images))
	for _, img := range reloaded.Images {
		urls = append(urls, img.URL)
	}
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, urls,
		"original images must survive the rollback, no losses and no duplicates")
}

func TestGORMProductRepository_SaveRenormalizesSlug(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	product := newProduct(owner, "Blue Shirt")
	require.NoError(t, repo.Create(product))

	loaded, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	loaded.Slug = "New Slug's Value"
	require.NoError(t, repo.Save(loaded, false))

	reloaded, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "new_slugs_value", reloaded.Slug)
}

func TestGORMProductRepository_DeleteCascadesToImages(t *testing.T) {
	repo, owner, db := setupRepo(t)

	product := newProduct(owner, "Blue Shirt", "a.jpg", "b.jpg")
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Images never exist without an owning product.
	var imageCount int64
	require.NoError(t, db.Model(&models.ProductImage{}).Count(&imageCount).Error)
	assert.Zero(t, imageCount)

	err = repo.Delete("4b2ef0be-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_DeleteAll(t *testing.T) {
	repo, owner, _ := setupRepo(t)

	require.NoError(t, repo.Create(newProduct(owner, "Product 1", "a.jpg")))
	require.NoError(t, repo.Create(newProduct(owner, "Product 2")))

	count, err := repo.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	products, err := repo.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, products)
}
