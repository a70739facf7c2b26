package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fintrack-backend/internal/billing"
	"fintrack-backend/internal/services"
	"fintrack-backend/pkg/utils"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// errorDetail controls whether unmapped errors leak their message into 500
// responses. Enabled outside production, see SetErrorDetail.
var errorDetail bool

// SetErrorDetail toggles verbose 500 bodies. Production keeps them opaque.
func SetErrorDetail(enabled bool) {
	errorDetail = enabled
}

// respondServiceError maps service errors onto the response envelope.
// notFoundMsg names the resource in 404 responses; everything unmapped is
// logged and reported as a 500.
func respondServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrNotOwner):
		utils.Error(w, http.StatusUnauthorized, "Not authorized to access this resource")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrDuplicateUser):
		utils.Error(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, services.ErrDuplicateEmail):
		utils.Error(w, http.StatusConflict, "A client with this email already exists")
	case errors.Is(err, services.ErrDuplicateNumber):
		utils.Error(w, http.StatusConflict, "Invoice number already in use")
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPaymentMethod),
		errors.Is(err, billing.ErrInvalidStatus),
		errors.Is(err, billing.ErrNoItems),
		errors.Is(err, billing.ErrQuantityTooSmall),
		errors.Is(err, billing.ErrNegativeRate),
		errors.Is(err, billing.ErrNegativeTaxRate):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrReceiptsDisabled):
		utils.Error(w, http.StatusServiceUnavailable, "Receipt storage is not available")
	default:
		log.Printf("[Handler] unexpected error: %v", err)
		msg := "Internal server error"
		if errorDetail {
			msg = err.Error()
		}
		utils.Error(w, http.StatusInternalServerError, msg)
	}
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// parsePagination reads page and limit query params with sane bounds.
func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// totalPages computes the page count for a result set.
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
