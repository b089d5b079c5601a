package handlers_integrated_test_suite

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/gestao-stock/internal/config"
	"github.com/rogerio-castellano/gestao-stock/internal/db"
	handler "github.com/rogerio-castellano/gestao-stock/internal/http/handlers"
	"github.com/rogerio-castellano/gestao-stock/internal/repo"
)

func TestPostgresProductRoundTrip(t *testing.T) {
	t.Cleanup(clearAllProducts)

	created, err := productRepo.Create("Martelo", 12)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected id 1 after truncate, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Errorf("expected timestamps from the database, got %+v", created)
	}

	got, err := productRepo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Martelo" || got.Quantity != 12 {
		t.Errorf("unexpected product %+v", got)
	}

	all, err := productRepo.GetAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != created.ID {
		t.Errorf("expected the created product in the list, got %+v", all)
	}
}

func TestPostgresProductOrdering(t *testing.T) {
	t.Cleanup(clearAllProducts)

	for _, name := range []string{"Zebra", "Apple", "Banana"} {
		if _, err := productRepo.Create(name, 5); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	all, _ := productRepo.GetAll()
	var names []string
	for _, p := range all {
		names = append(names, p.Name)
	}
	if fmt.Sprint(names) != "[Apple Banana Zebra]" {
		t.Errorf("expected [Apple Banana Zebra], got %v", names)
	}
}

func TestPostgresProductOrderIgnoresCase(t *testing.T) {
	t.Cleanup(clearAllProducts)

	for _, name := range []string{"banana", "Cherry", "Apple"} {
		if _, err := productRepo.Create(name, 5); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	all, _ := productRepo.GetAll()
	var names []string
	for _, p := range all {
		names = append(names, p.Name)
	}
	if fmt.Sprint(names) != "[Apple banana Cherry]" {
		t.Errorf("expected [Apple banana Cherry], got %v", names)
	}
}

func TestPostgresProductStoreUnavailable(t *testing.T) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	closed, err := db.Connect(&config.Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	closed.Close()

	store := repo.NewPostgresProductRepository(closed, time.Second, quiet)

	if _, err := store.GetAll(); !errors.Is(err, repo.ErrStoreUnavailable) {
		t.Errorf("list: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Create("Fita", 2); !errors.Is(err, repo.ErrStoreUnavailable) {
		t.Errorf("create: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.GetByID(1); !errors.Is(err, repo.ErrStoreUnavailable) {
		t.Errorf("get: expected ErrStoreUnavailable, got %v", err)
	}
	if err := store.Delete(1); !errors.Is(err, repo.ErrStoreUnavailable) || errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("delete: expected ErrStoreUnavailable only, got %v", err)
	}
}

func TestPostgresProductSearch(t *testing.T) {
	t.Cleanup(clearAllProducts)

	for _, name := range []string{"Banana", "ANANAS", "Pear", "100% algodão", "fio_2mm"} {
		if _, err := productRepo.Create(name, 5); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	tests := []struct {
		term     string
		expected string
	}{
		{term: "ana", expected: "[ANANAS Banana]"},
		{term: "%", expected: "[100% algodão]"},
		{term: "_", expected: "[fio_2mm]"},
		{term: "zzz", expected: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			found, err := productRepo.Search(tt.term)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			names := []string{}
			for _, p := range found {
				names = append(names, p.Name)
			}
			if fmt.Sprint(names) != tt.expected {
				t.Errorf("expected %s, got %v", tt.expected, names)
			}
		})
	}
}

func TestPostgresProductUpdate(t *testing.T) {
	t.Cleanup(clearAllProducts)

	created, _ := productRepo.Create("Serra", 8)

	updated, err := productRepo.Update(created.ID, "Serra tico-tico", 2)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Serra tico-tico" || updated.Quantity != 2 {
		t.Errorf("unexpected product %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	// same values still match the row
	if _, err := productRepo.Update(created.ID, "Serra tico-tico", 2); err != nil {
		t.Errorf("expected same-value update to succeed, got %v", err)
	}
	if err := productRepo.UpdateQuantity(created.ID, 2); err != nil {
		t.Errorf("expected same-value quantity update to succeed, got %v", err)
	}
}

func TestPostgresProductNotFound(t *testing.T) {
	t.Cleanup(clearAllProducts)

	if _, err := productRepo.GetByID(999); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("get: expected ErrProductNotFound, got %v", err)
	}
	if _, err := productRepo.Update(999, "x", 1); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("update: expected ErrProductNotFound, got %v", err)
	}
	if err := productRepo.UpdateQuantity(999, 1); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("update quantity: expected ErrProductNotFound, got %v", err)
	}
	if err := productRepo.Delete(999); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("delete: expected ErrProductNotFound, got %v", err)
	}

	created, _ := productRepo.Create("Broca", 4)
	if err := productRepo.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := productRepo.Delete(created.ID); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("second delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestPostgresConcurrentCreates(t *testing.T) {
	t.Cleanup(clearAllProducts)

	const n = 30
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := productRepo.Create(fmt.Sprintf("Parafuso %02d", i), 100)
			if err != nil {
				t.Errorf("create failed: %v", err)
				return
			}
			ids <- p.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d ids, got %d", n, len(seen))
	}
}

func TestPostgresHandlersEndToEnd(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := doRaw(r, http.MethodPost, "/api/produtos", `{"nome": "Lixa", "quantidade": "3"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var created handler.CreatedProductResponse
	json.NewDecoder(w.Body).Decode(&created)
	if !created.LowStock {
		t.Error("expected low-stock advisory for quantity 3")
	}

	w = doRaw(r, http.MethodPatch, fmt.Sprintf("/api/produtos/%d/quantidade", created.Id), `{"quantidade": 40}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	w = doRaw(r, http.MethodGet, "/api/metrics/dashboard", "")
	var metrics repo.StockMetrics
	json.NewDecoder(w.Body).Decode(&metrics)
	if metrics.TotalProducts != 1 || metrics.TotalUnits != 40 || metrics.LowStockCount != 0 {
		t.Errorf("unexpected metrics %+v", metrics)
	}

	w = doRaw(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected healthy database, got %d: %s", w.Code, w.Body.String())
	}

	w = doRaw(r, http.MethodDelete, fmt.Sprintf("/api/produtos/%d", created.Id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	w = doRaw(r, http.MethodPut, fmt.Sprintf("/api/produtos/%d", created.Id), `{"nome": "Lixa", "quantidade": 1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
