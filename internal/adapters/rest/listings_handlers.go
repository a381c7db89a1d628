package rest

import (
	"net/http"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port"
	"listings-service/internal/core/port/usecases_port"
	"listings-service/internal/filterquery"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ListingsHandler struct {
	findUC     usecases_port.FindListingsUseCase
	getUC      usecases_port.GetListingUseCase
	createUC   usecases_port.CreateListingUseCase
	updateUC   usecases_port.UpdateListingUseCase
	deleteUC   usecases_port.DeleteListingUseCase
	addImageUC usecases_port.AddListingImageUseCase
}

func NewListingsHandler(
	findUC usecases_port.FindListingsUseCase,
	getUC usecases_port.GetListingUseCase,
	createUC usecases_port.CreateListingUseCase,
	updateUC usecases_port.UpdateListingUseCase,
	deleteUC usecases_port.DeleteListingUseCase,
	addImageUC usecases_port.AddListingImageUseCase,
) *ListingsHandler {
	return &ListingsHandler{
		findUC:     findUC,
		getUC:      getUC,
		createUC:   createUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		addImageUC: addImageUC,
	}
}

// FindListings обрабатывает GET /api/v1/listings
func (h *ListingsHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "FindListings",
		"query":   r.URL.RawQuery,
	})

	filters, err := filterquery.Parse(r.URL.Query())
	if err != nil {
		handlerLogger.Warn("Invalid filter parameters", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.findUC.Execute(r.Context(), filters)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	response := ListingsResponse{
		Listings: make([]ListingResponse, len(result.Listings)),
		Count:    result.Count,
		Filters:  toFiltersResponse(result.Filters),
	}
	for i := range result.Listings {
		response.Listings[i] = toListingResponse(&result.Listings[i])
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetListing обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	listing, err := h.getUC.Execute(r.Context(), listingID)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponse(listing))
}

// CreateListing обрабатывает POST /api/v1/listings
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "CreateListing",
	})

	var req ListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handlerLogger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.createUC.Execute(r.Context(), currentUserID(r), req.toInput())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, CreateListingResponse{Success: true, ID: id.String()})
}

// UpdateListing обрабатывает PUT /api/v1/listings/{listingID}
func (h *ListingsHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "UpdateListing",
	})

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var req ListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handlerLogger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing, err := h.updateUC.Execute(r.Context(), currentUserID(r), listingID, req.toInput())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponse(listing))
}

// DeleteListing обрабатывает DELETE /api/v1/listings/{listingID}
func (h *ListingsHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "DeleteListing",
	})

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(r.Context(), currentUserID(r), listingID); err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddImage обрабатывает POST /api/v1/listings/{listingID}/images
func (h *ListingsHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "AddImage",
	})

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var req AddImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handlerLogger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	image, err := h.addImageUC.Execute(r.Context(), currentUserID(r), listingID, req.ImageURL, req.IsPrimary)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, toImageResponse(*image))
}

func parseListingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return uuid.Nil, false
	}
	return listingID, true
}

// currentUserID - пользователь из сессии или uuid.Nil, если сессии нет
func currentUserID(r *http.Request) uuid.UUID {
	if session := contextkeys.SessionFromContext(r.Context()); session != nil {
		return session.UserID
	}
	return uuid.Nil
}
