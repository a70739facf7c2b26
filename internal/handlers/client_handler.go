package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/validation"
	"fintrack-backend/pkg/utils"
)

// ClientService is what the client endpoints need from the service tier.
type ClientService interface {
	Create(ctx context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error)
	Get(ctx context.Context, userID, id int) (*models.Client, error)
	List(ctx context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error)
	Update(ctx context.Context, userID, id int, req *models.UpdateClientRequest) (*models.Client, error)
	Delete(ctx context.Context, userID, id int) error
	Stats(ctx context.Context, userID int) (*models.ClientStats, error)
}

type ClientHandler struct {
	Service ClientService
}

func NewClientHandler(s ClientService) *ClientHandler {
	return &ClientHandler{Service: s}
}

// Create adds a new client for the authenticated user
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	client, err := h.Service.Create(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}
	utils.Created(w, "Client created", client)
}

// List returns the user's clients with pagination and optional search
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	page, limit := parsePagination(r)

	filter := &models.ClientListFilter{
		UserID: userID,
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}
	clients, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}

	utils.OK(w, "", map[string]any{
		"clients":     clients,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// Get returns a single client
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid client id")
		return
	}

	client, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}
	utils.OK(w, "", client)
}

// Update replaces a client's details
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid client id")
		return
	}

	var req models.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	client, err := h.Service.Update(r.Context(), userID, id, &req)
	if err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}
	utils.OK(w, "Client updated", client)
}

// Delete removes a client; invoices keep their frozen snapshot
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid client id")
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}
	utils.OK(w, "Client deleted", nil)
}

// Stats returns the total count and most recent clients
func (h *ClientHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	stats, err := h.Service.Stats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}
	utils.OK(w, "", stats)
}
