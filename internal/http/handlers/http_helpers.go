package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	repo "github.com/rogerio-castellano/gestao-stock/internal/repo"
	"github.com/rogerio-castellano/gestao-stock/internal/validation"
)

const (
	msgInvalidJSON     = "Corpo JSON inválido"
	msgInvalidID       = "ID de produto inválido"
	msgNotFound        = "Produto não encontrado"
	msgMissingName     = "O nome do produto é obrigatório"
	msgMissingQuantity = "A quantidade é obrigatória"
	msgInvalidQuantity = "A quantidade deve ser um número inteiro maior que zero"
	msgLowStockFormat  = "Estoque baixo: restam apenas %d unidade(s)"
	msgListFailed      = "Erro ao buscar produtos"
	msgSearchFailed    = "Erro na busca de produtos"
	msgCreateFailed    = "Erro ao adicionar produto"
	msgUpdateFailed    = "Erro ao atualizar produto"
	msgQuantityFailed  = "Erro ao atualizar quantidade"
	msgDeleteFailed    = "Erro ao eliminar produto"
	msgMetricsFailed   = "Erro ao calcular métricas"
	msgAlertsFailed    = "Erro ao buscar alertas"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		requestLog(r).WithError(err).Error("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, ErrorResponse{Error: message})
}

// writeFailure maps a validation or store error to its status code. The
// technical detail of a store failure is logged, never returned.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	switch {
	case errors.Is(err, validation.ErrMissingName):
		writeError(w, r, http.StatusBadRequest, msgMissingName)
	case errors.Is(err, validation.ErrMissingQuantity):
		writeError(w, r, http.StatusBadRequest, msgMissingQuantity)
	case errors.Is(err, validation.ErrInvalidQuantity):
		writeError(w, r, http.StatusBadRequest, msgInvalidQuantity)
	case errors.Is(err, repo.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, msgNotFound)
	default:
		requestLog(r).WithError(err).Error(internalMessage)
		writeError(w, r, http.StatusInternalServerError, internalMessage)
	}
}

func requestLog(r *http.Request) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func advisoryFor(quantity int) Advisory {
	if !validation.IsLowStock(quantity) {
		return Advisory{}
	}
	return Advisory{LowStock: true, Message: fmt.Sprintf(msgLowStockFormat, quantity)}
}
