package models

import (
	"strings"

	"github.com/lib/pq"
)

// Product represents a product in the catalog. Title and Slug are
// unique across the whole table; Images and Owner are always loaded
// together with the product.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string         `json:"title" gorm:"uniqueIndex;not null"`
	Price       float64        `json:"price" gorm:"default:0"`
	Description string         `json:"description"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Stock       int            `json:"stock" gorm:"default:0"`
	Sizes       pq.StringArray `json:"sizes" gorm:"type:text[]"`
	Gender      string         `json:"gender" gorm:"not null"` // "men", "women", "kid" or "unisex"
	Tags        pq.StringArray `json:"tags" gorm:"type:text[];default:'{}'"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OwnerID     string         `json:"-" gorm:"type:varchar(36);index"`
	Owner       User           `json:"owner" gorm:"foreignKey:OwnerID"`
}

// ProductImage is a single image owned by a product. Rows never exist
// without an owning product; deleting the product removes them.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	URL       string `json:"url" gorm:"not null"`
	ProductID string `json:"-" gorm:"type:varchar(36);index"`
}

// ProductView is the read-facing shape of a product: the image
// collection is flattened to a plain list of URL strings.
type ProductView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Slug        string   `json:"slug"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	Owner       User     `json:"owner"`
}

// Flatten reduces the product's image records to their URLs.
func (p *Product) Flatten() ProductView {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       []string(p.Sizes),
		Gender:      p.Gender,
		Tags:        []string(p.Tags),
		Images:      urls,
		Owner:       p.Owner,
	}
}

// NormalizeSlug derives the canonical slug from candidate, falling back
// to title when candidate is empty: lowercased, spaces replaced with
// underscores, apostrophes stripped. Idempotent, so it is safe to run
// on every insert and update.
func NormalizeSlug(candidate, title string) string {
	if candidate == "" {
		candidate = title
	}
	slug := strings.ToLower(candidate)
	slug = strings.ReplaceAll(slug, " ", "_")
	return strings.ReplaceAll(slug, "'", "")
}

// ImageSet materializes a list of URLs into unsaved image records. The
// association with a product is set by the caller before persistence.
func ImageSet(urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, ProductImage{URL: url})
	}
	return images
}
