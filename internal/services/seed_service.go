package services

import (
	"errors"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

const seedOwnerEmail = "seed@catalog.local"

// seedData is the built-in clothing dataset loaded by the seed path.
var seedData = []CreateProductCommand{
	{
		Title:       "Men's Chill Crew Neck Sweatshirt",
		Price:       75,
		Description: "Introducing the Tesla Chill Collection. The Men's Chill Crew Neck Sweatshirt has a premium, heavyweight exterior.",
		Stock:       7,
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"sweatshirt"},
		Images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		Title:       "Men's Quilted Shirt Jacket",
		Price:       200,
		Description: "The Men's Quilted Shirt Jacket features a uniquely fit, quilted design for warmth and mobility in cold weather seasons.",
		Stock:       5,
		Sizes:       []string{"XS", "S", "M", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"jacket"},
		Images:      []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"},
	},
	{
		Title:       "Women's Cropped Puffer Jacket",
		Price:       225,
		Description: "The Women's Cropped Puffer Jacket features a uniquely cropped silhouette for the perfect statement piece.",
		Stock:       85,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "women",
		Tags:        []string{"jacket"},
		Images:      []string{"1654252-00-A_0_2000.jpg", "1654252-00-A_1.jpg"},
	},
	{
		Title:       "Kids Cyberquad Bomber Jacket",
		Price:       65,
		Description: "Wear your love for Cyberquad with this bomber jacket, made from 60% cotton and 40% polyester.",
		Stock:       10,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "kid",
		Tags:        []string{"shirt"},
		Images:      []string{"1742702-00-A_0_2000.jpg", "1742702-00-A_1.jpg"},
	},
	{
		Title:       "Cybertruck Graffiti Hoodie",
		Price:       60,
		Description: "The Unisex Cybertruck Graffiti Hoodie features a made-to-move design with soft fleece lining.",
		Stock:       13,
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      "unisex",
		Tags:        []string{"hoodie"},
		Images:      []string{"7654420-00-A_0_2000.jpg", "7654420-00-A_1.jpg"},
	},
}

// SeedService rebuilds the catalog from the built-in dataset. It wipes
// every existing product first, so it belongs to development and test
// environments only.
type SeedService struct {
	products *ProductService
	users    repositories.UserRepository
}

// NewSeedService creates a new SeedService.
func NewSeedService(products *ProductService, users repositories.UserRepository) *SeedService {
	return &SeedService{
		products: products,
		users:    users,
	}
}

// Run drops the whole catalog and inserts the seed dataset owned by the
// seed user. It returns the number of products created.
func (s *SeedService) Run() (int, error) {
	if _, err := s.products.DeleteAllProducts(); err != nil {
		return 0, fmt.Errorf("failed to reset catalog: %w", err)
	}

	owner, err := s.ensureSeedOwner()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, cmd := range seedData {
		if _, err := s.products.CreateProduct(cmd, *owner); err != nil {
			return created, fmt.Errorf("failed to seed product %q: %w", cmd.Title, err)
		}
		created++
	}
	return created, nil
}

// ensureSeedOwner looks up the seed user, creating it on first run.
func (s *SeedService) ensureSeedOwner() (*models.User, error) {
	owner, err := s.users.GetByEmail(seedOwnerEmail)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up seed user: %w", err)
	}

	owner = &models.User{
		Email:    seedOwnerEmail,
		FullName: "Seed User",
		IsActive: true,
		Roles:    []string{"user"},
	}
	if err := s.users.Create(owner); err != nil {
		return nil, fmt.Errorf("failed to create seed user: %w", err)
	}
	return owner, nil
}
