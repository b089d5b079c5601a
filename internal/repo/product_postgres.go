package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/gestao-stock/internal/models"
)

const productColumns = `id, nome, quantidade, created_at, updated_at`

// PostgresProductRepository stores products in the produtos table.
//
// Every call runs under its own timeout derived from context.Background:
// a client that goes away does not cancel a statement already in flight,
// and a caller waiting on an exhausted pool gives up after the timeout.
type PostgresProductRepository struct {
	db      *sql.DB
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewPostgresProductRepository(db *sql.DB, timeout time.Duration, log logrus.FieldLogger) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, timeout: timeout, log: log.WithField("component", "product_store")}
}

func (r *PostgresProductRepository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *PostgresProductRepository) fail(op string, err error, fields logrus.Fields) error {
	r.log.WithFields(fields).WithError(err).Errorf("%s failed", op)
	return storeErr(op, err)
}

func (r *PostgresProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM produtos ORDER BY lower(nome), nome, id`
	ctx, cancel := r.queryContext()
	defer cancel()

	products, err := r.queryProducts(ctx, query)
	if err != nil {
		return nil, r.fail("list products", err, nil)
	}
	return products, nil
}

func (r *PostgresProductRepository) Search(term string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM produtos WHERE nome ILIKE $1 ESCAPE '\' ORDER BY lower(nome), nome, id`
	ctx, cancel := r.queryContext()
	defer cancel()

	products, err := r.queryProducts(ctx, query, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, r.fail("search products", err, logrus.Fields{"term": term})
	}
	return products, nil
}

func (r *PostgresProductRepository) GetByID(id int) (models.Product, error) {
	if !validID(id) {
		return models.Product{}, ErrProductNotFound
	}
	query := `SELECT ` + productColumns + ` FROM produtos WHERE id = $1`
	ctx, cancel := r.queryContext()
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, r.fail("get product", err, logrus.Fields{"id": id})
	}
	return p, nil
}

func (r *PostgresProductRepository) Create(name string, quantity int) (models.Product, error) {
	query := `INSERT INTO produtos (nome, quantidade, created_at, updated_at) VALUES ($1, $2, now(), now()) RETURNING ` + productColumns
	ctx, cancel := r.queryContext()
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, name, quantity))
	if err != nil {
		return models.Product{}, r.fail("create product", err, logrus.Fields{"name": name})
	}
	return p, nil
}

// Update replaces name and quantity. A missing row is detected from the
// statement itself, never from a prior read.
func (r *PostgresProductRepository) Update(id int, name string, quantity int) (models.Product, error) {
	if !validID(id) {
		return models.Product{}, ErrProductNotFound
	}
	query := `UPDATE produtos SET nome = $1, quantidade = $2, updated_at = now() WHERE id = $3 RETURNING ` + productColumns
	ctx, cancel := r.queryContext()
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, name, quantity, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, r.fail("update product", err, logrus.Fields{"id": id})
	}
	return p, nil
}

func (r *PostgresProductRepository) UpdateQuantity(id int, quantity int) error {
	if !validID(id) {
		return ErrProductNotFound
	}
	query := `UPDATE produtos SET quantidade = $1, updated_at = now() WHERE id = $2`
	return r.execAffectingOne("update quantity", id, query, quantity, id)
}

func (r *PostgresProductRepository) Delete(id int) error {
	if !validID(id) {
		return ErrProductNotFound
	}
	query := `DELETE FROM produtos WHERE id = $1`
	return r.execAffectingOne("delete product", id, query, id)
}

func (r *PostgresProductRepository) execAffectingOne(op string, id int, query string, args ...any) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(op, err, logrus.Fields{"id": id})
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return r.fail(op, err, logrus.Fields{"id": id})
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside an ILIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
