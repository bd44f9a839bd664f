package models_test

import (
	"testing"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		title     string
		expected  string
	}{
		{"derived from title when empty", "", "Blue Shirt", "blue_shirt"},
		{"explicit slug wins over title", "custom slug", "Blue Shirt", "custom_slug"},
		{"lowercases", "BLUE_SHIRT", "", "blue_shirt"},
		{"strips apostrophes", "", "Men's Chill Crew Neck Sweatshirt", "mens_chill_crew_neck_sweatshirt"},
		{"already normalized stays put", "blue_shirt", "Blue Shirt", "blue_shirt"},
		{"empty candidate and title", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.NormalizeSlug(tt.candidate, tt.title))
		})
	}
}

func TestNormalizeSlugIdempotent(t *testing.T) {
	inputs := []string{"Blue Shirt", "Men's Hoodie", "ALL CAPS", "no spaces", "a'b' c", "already_normal"}
	for _, input := range inputs {
		once := models.NormalizeSlug(input, "")
		twice := models.NormalizeSlug(once, "")
		assert.Equal(t, once, twice, "normalizing %q twice changed the result", input)
	}
}

func TestImageSet(t *testing.T) {
	images := models.ImageSet([]string{"a.jpg", "b.jpg"})
	assert.Len(t, images, 2)
	assert.Equal(t, "a.jpg", images[0].URL)
	assert.Equal(t, "b.jpg", images[1].URL)
	// Records are unsaved: no IDs, no owning product yet.
	assert.Zero(t, images[0].ID)
	assert.Empty(t, images[0].ProductID)

	assert.Empty(t, models.ImageSet(nil))
}

func TestProductFlatten(t *testing.T) {
	product := models.Product{
		ID:     "prod-1",
		Title:  "Blue Shirt",
		Slug:   "blue_shirt",
		Sizes:  []string{"M", "L"},
		Gender: "men",
		Tags:   []string{"shirt"},
		Images: []models.ProductImage{
			{ID: 1, URL: "a.jpg", ProductID: "prod-1"},
			{ID: 2, URL: "b.jpg", ProductID: "prod-1"},
		},
		Owner: models.User{ID: "user-1", Email: "owner@example.com"},
	}

	view := product.Flatten()
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, view.Images)
	assert.Equal(t, []string{"M", "L"}, view.Sizes)
	assert.Equal(t, "blue_shirt", view.Slug)
	assert.Equal(t, "user-1", view.Owner.ID)
}
