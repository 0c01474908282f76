package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/bizdash/internal/ingest"
	"github.com/xela07ax/bizdash/internal/schema"
	"go.uber.org/zap"
)

// maxBodyBytes: контракты дашборда маленькие, 1 МБ с запасом.
const maxBodyBytes = 1 << 20

// ContractService Описываем, что нам нужно от сервиса
type ContractService interface {
	Validate(ctx context.Context, entity string, input any) (any, error)
	Submit(ctx context.Context, entity string, input any) (any, error)
}

type ContractHandler struct {
	service ContractService
	logger  *zap.Logger
}

func NewContractHandler(s ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{service: s, logger: logger.Named("contract-handler")}
}

type validationResponse struct {
	Valid  bool           `json:"valid"`
	Entity string         `json:"entity"`
	Value  any            `json:"value,omitempty"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListSchemas возвращает имена поддерживаемых сущностей.
// GET /api/v1/schemas
func (h *ContractHandler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"entities": schema.Entities()})
}

// Validate только проверяет payload, ничего не рассылая.
// POST /api/v1/schemas/{entity}/validate
func (h *ContractHandler) Validate(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	input, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	value, err := h.service.Validate(r.Context(), entity, input)
	if err != nil {
		h.writeError(w, entity, err)
		return
	}
	h.writeJSON(w, http.StatusOK, validationResponse{Valid: true, Entity: entity, Value: value})
}

// Submit проверяет контракт и отправляет его подписчикам дашборда.
// POST /api/v1/contracts/{entity}
func (h *ContractHandler) Submit(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	input, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	value, err := h.service.Submit(r.Context(), entity, input)
	if err != nil {
		h.writeError(w, entity, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, validationResponse{Valid: true, Entity: entity, Value: value})
}

func (h *ContractHandler) decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return nil, false
	}
	input, err := schema.Decode(data)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return nil, false
	}
	return input, true
}

// writeError разделяет типы ошибок: 422 / 404 / 503 / 502 / 500
func (h *ContractHandler) writeError(w http.ResponseWriter, entity string, err error) {
	if vErr, ok := schema.AsValidationError(err); ok {
		h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Entity: entity, Issues: vErr.Issues})
		return
	}

	switch {
	case errors.Is(err, ingest.ErrUnknownEntity):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, ingest.ErrFeedOverflow), errors.Is(err, ingest.ErrFeedClosed):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.Is(err, ingest.ErrDelivery):
		h.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "contract accepted but not delivered"})
	default:
		h.logger.Error("contract processing failed", zap.String("entity", entity), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeJSON: заголовок уже отправлен, поэтому ошибку записи (обычно клиент ушёл) только логируем.
func (h *ContractHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug("response write failed", zap.Int("status", status), zap.Error(err))
	}
}
