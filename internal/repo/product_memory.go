package repo

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/gestao-stock/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// It is safe for concurrent use.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
	now      func() time.Time
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// byName orders case-insensitively, then by exact name, then by id.
func byName(a, b models.Product) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return a.ID - b.ID
}

func (r *InMemoryProductRepository) sorted(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, byName)
	return out
}

// GetAll retrieves all products ordered by name.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(models.Product) bool { return true }), nil
}

// Search returns the products whose name contains term, ignoring case.
func (r *InMemoryProductRepository) Search(term string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)
	return r.sorted(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(name string, quantity int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	product := models.Product{
		ID:        r.nextID,
		Name:      name,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(id int, name string, quantity int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	r.products[i].Name = name
	r.products[i].Quantity = quantity
	r.products[i].UpdatedAt = r.now()
	return r.products[i], nil
}

// UpdateQuantity sets the quantity of an existing product.
func (r *InMemoryProductRepository) UpdateQuantity(id int, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products[i].Quantity = quantity
	r.products[i].UpdatedAt = r.now()
	return nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = slices.Delete(r.products, i, i+1)
	return nil
}

// Clear drops every product. Ids keep increasing across calls.
func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

func (r *InMemoryProductRepository) indexOf(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
