package repo

import (
	"errors"
	"fmt"
	"math"

	"github.com/rogerio-castellano/gestao-stock/internal/models"
)

// ProductRepository defines the interface for product data operations.
// Inputs are expected to be validated already; implementations only
// translate storage outcomes into ErrProductNotFound or ErrStoreUnavailable.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	Search(term string) ([]models.Product, error)
	GetByID(id int) (models.Product, error)
	Create(name string, quantity int) (models.Product, error)
	Update(id int, name string, quantity int) (models.Product, error)
	UpdateQuantity(id int, quantity int) error
	Delete(id int) error
}

var (
	// ErrProductNotFound is returned when no product matches the given id.
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreUnavailable wraps every infrastructure failure: pool
	// exhaustion past the query timeout, connection loss, SQL errors.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// validID reports whether id can identify a row of a SERIAL column.
func validID(id int) bool {
	return id > 0 && id <= math.MaxInt32
}
