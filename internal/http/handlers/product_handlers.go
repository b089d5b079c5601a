package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/gestao-stock/internal/alerts"
	"github.com/rogerio-castellano/gestao-stock/internal/validation"
)

// GetProductsHandler godoc
// @Summary List all products
// @Description Products ordered by name
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll()
	if err != nil {
		writeFailure(w, r, err, msgListFailed)
		return
	}
	requestLog(r).WithField("count", len(products)).Debug("listed products")
	respond(w, r, http.StatusOK, toProductResponses(products))
}

// SearchProductsHandler godoc
// @Summary Search products by name
// @Description Case-insensitive substring match on the name, ordered by name
// @Tags products
// @Produce json
// @Param termo path string true "Search term"
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos/busca/{termo} [get]
func SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.Search(searchTerm(r))
	if err != nil {
		writeFailure(w, r, err, msgSearchFailed)
		return
	}
	respond(w, r, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	product, err := productRepo.GetByID(id)
	if err != nil {
		writeFailure(w, r, err, msgListFailed)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(product))
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. Quantities of 3 or less carry a low-stock advisory.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} CreatedProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	valid, err := validation.ValidateProduct(req.Name, req.Quantity)
	if err != nil {
		writeFailure(w, r, err, msgCreateFailed)
		return
	}

	created, err := productRepo.Create(valid.Name, valid.Quantity)
	if err != nil {
		writeFailure(w, r, err, msgCreateFailed)
		return
	}

	requestLog(r).WithField("id", created.ID).Info("product created")
	notifyLowStock(created.ID, created.Name, created.Quantity, "create")

	respond(w, r, http.StatusCreated, CreatedProductResponse{
		ProductResponse: toProductResponse(created),
		Advisory:        advisoryFor(created.Quantity),
	})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Replaces name and quantity
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	valid, err := validation.ValidateProduct(req.Name, req.Quantity)
	if err != nil {
		writeFailure(w, r, err, msgUpdateFailed)
		return
	}

	updated, err := productRepo.Update(id, valid.Name, valid.Quantity)
	if err != nil {
		writeFailure(w, r, err, msgUpdateFailed)
		return
	}

	requestLog(r).WithField("id", id).Info("product updated")
	notifyLowStock(updated.ID, updated.Name, updated.Quantity, "update")

	respond(w, r, http.StatusOK, SuccessResponse{Success: true, Advisory: advisoryFor(updated.Quantity)})
}

// UpdateQuantityHandler godoc
// @Summary Update a product's quantity
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param quantity body QuantityRequest true "New quantity"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos/{id}/quantidade [patch]
func UpdateQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req QuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	quantity, err := validation.ValidateQuantityOnly(req.Quantity)
	if err != nil {
		writeFailure(w, r, err, msgQuantityFailed)
		return
	}

	if err := productRepo.UpdateQuantity(id, quantity); err != nil {
		writeFailure(w, r, err, msgQuantityFailed)
		return
	}

	requestLog(r).WithField("id", id).Info("product quantity updated")
	notifyLowStock(id, "", quantity, "quantity")

	respond(w, r, http.StatusOK, SuccessResponse{Success: true, Advisory: advisoryFor(quantity)})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := productRepo.Delete(id); err != nil {
		writeFailure(w, r, err, msgDeleteFailed)
		return
	}

	requestLog(r).WithField("id", id).Info("product deleted")
	respond(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// GetLowStockAlertsHandler godoc
// @Summary Recent low-stock alerts
// @Description Newest first. Empty when no alert store is configured.
// @Tags products
// @Produce json
// @Success 200 {array} alerts.Alert
// @Failure 500 {object} ErrorResponse
// @Router /api/produtos/alertas [get]
func GetLowStockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	recent, err := notifier.Recent()
	if err != nil {
		writeFailure(w, r, err, msgAlertsFailed)
		return
	}
	respond(w, r, http.StatusOK, recent)
}

func notifyLowStock(id int, name string, quantity int, operation string) {
	if !validation.IsLowStock(quantity) {
		return
	}
	notifier.Notify(alerts.Alert{
		ProductID: id,
		Name:      name,
		Quantity:  quantity,
		Operation: operation,
		Time:      time.Now().UTC(),
	})
}

// searchTerm returns the decoded {termo}. chi matches on RawPath when the
// client escaped a reserved character such as "/", leaving the
// parameter escaped.
func searchTerm(r *http.Request) string {
	term := chi.URLParam(r, "termo")
	if r.URL.RawPath == "" {
		return term
	}
	if decoded, err := url.PathUnescape(term); err == nil {
		return decoded
	}
	return term
}
