package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/edgepay/edgepay-gobackend/internal/models"
	"github.com/edgepay/edgepay-gobackend/internal/services"
)

// LinkHandler handles HTTP requests for payment links.
type LinkHandler struct {
	service  *services.LinkService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewLinkHandler(service *services.LinkService, log zerolog.Logger) *LinkHandler {
	return &LinkHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

type createLinkRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=3,max=100"`
	ExpiresAt   *int64  `json:"expiresAt" validate:"omitempty,gt=0"`
}

type listLinksData struct {
	Items []models.PaymentLink `json:"items"`
	Next  *string              `json:"next,omitempty"`
}

type deleteLinkData struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ListLinks handles GET /api/payment-links
func (h *LinkHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list payment links")
		failFromError(w, err)
		return
	}
	ok(w, listLinksData{Items: links})
}

// CreateLink handles POST /api/payment-links
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Reject malformed input here so bad requests never reach the service.
	if err := h.validate.Struct(req); err != nil {
		fail(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	link, err := h.service.Create(r.Context(), req.Amount, req.Description, req.ExpiresAt)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create payment link")
		failFromError(w, err)
		return
	}
	ok(w, link)
}

// GetLink handles GET /api/payment-links/{linkID} and the public
// GET /api/public/links/{linkID}; the two behave identically, only the
// management route sits behind the auth middleware.
func (h *LinkHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["linkID"]
	if id == "" {
		fail(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	link, err := h.service.Get(r.Context(), id)
	if err != nil {
		failFromError(w, err)
		return
	}
	ok(w, link)
}

// PayLink handles POST /api/public/links/{linkID}/pay
func (h *LinkHandler) PayLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["linkID"]
	if id == "" {
		fail(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	link, err := h.service.Pay(r.Context(), id)
	if err != nil {
		failFromError(w, err)
		return
	}
	ok(w, link)
}

// DeleteLink handles DELETE /api/payment-links/{linkID}
func (h *LinkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["linkID"]
	if id == "" {
		fail(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		failFromError(w, err)
		return
	}
	if !deleted {
		fail(w, http.StatusNotFound, "Payment link not found")
		return
	}
	ok(w, deleteLinkData{ID: id, Deleted: true})
}

// validationMessage turns the first validator failure into the wording
// the API documents for each field.
func validationMessage(err error) string {
	validationErrors, isValidation := err.(validator.ValidationErrors)
	if !isValidation || len(validationErrors) == 0 {
		return "Invalid request body"
	}
	switch validationErrors[0].Field() {
	case "Amount":
		return "amount must be positive"
	case "Description":
		return "description must be between 3 and 100 characters"
	case "ExpiresAt":
		return "expiresAt must be a positive timestamp"
	}
	return "Invalid request body"
}
