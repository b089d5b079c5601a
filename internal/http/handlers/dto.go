package handlers

import (
	"time"

	"github.com/rogerio-castellano/gestao-stock/internal/models"
	"github.com/rogerio-castellano/gestao-stock/internal/validation"
)

type ProductRequest struct {
	Name     *string             `json:"nome" swaggertype:"string"`
	Quantity validation.Quantity `json:"quantidade" swaggertype:"integer"`
}

type QuantityRequest struct {
	Quantity validation.Quantity `json:"quantidade" swaggertype:"integer"`
}

type ProductResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"nome"`
	Quantity  int       `json:"quantidade"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Advisory is attached to successful writes that leave the product low on stock.
type Advisory struct {
	LowStock bool   `json:"estoque_baixo,omitempty"`
	Message  string `json:"aviso,omitempty"`
}

type CreatedProductResponse struct {
	ProductResponse
	Advisory
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Advisory
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}
