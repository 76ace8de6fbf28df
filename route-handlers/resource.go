package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/butchersbasket/api/datastore"
	"github.com/butchersbasket/api/models"
	"github.com/butchersbasket/api/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ResourceHandler serves one document collection. The per-resource
// asymmetries (required fields, filterable listing, mutability) come from
// the ResourceType descriptor, so the product and flash-sale endpoints share
// this code.
type ResourceHandler struct {
	resourceType models.ResourceType
	collection   datastore.DocumentCollection
}

func NewResourceHandler(rt models.ResourceType, collection datastore.DocumentCollection) *ResourceHandler {
	return &ResourceHandler{resourceType: rt, collection: collection}
}

// Type returns the descriptor this handler was configured with.
func (h *ResourceHandler) Type() models.ResourceType {
	return h.resourceType
}

// HandleCreate validates required fields and inserts a new document. Unknown
// fields in the payload are dropped; only the resource's declared fields are
// stored.
func (h *ResourceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) error {
	payload, err := decodeDocument(r)
	if err != nil {
		return err
	}

	for _, field := range h.resourceType.RequiredFields {
		if !fieldPresent(payload, field) {
			return webutil.ErrBadRequest("Not enough data to create " + h.resourceType.Name)
		}
	}

	doc := models.Document{}
	for _, field := range h.resourceType.Fields() {
		if fieldPresent(payload, field) {
			doc[field] = payload[field]
		}
	}

	if _, err := h.collection.Insert(r.Context(), doc); err != nil {
		return fmt.Errorf("failed to insert %s: %w", h.resourceType.Name, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, statusResponse{
		Success: true,
		Message: h.resourceType.Name + " added successfully",
	})
	return nil
}

// HandleList returns the full matching set as a JSON array. Query-parameter
// filters apply only when the resource supports them; everything else always
// lists the whole collection.
func (h *ResourceHandler) HandleList(w http.ResponseWriter, r *http.Request) error {
	filter := models.Document{}
	if h.resourceType.SupportsFilter {
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				filter[key] = values[0]
			}
		}
	}

	docs, err := h.collection.Find(r.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list %s documents: %w", h.resourceType.Name, err)
	}
	if docs == nil {
		docs = []models.Document{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, docs)
	return nil
}

func (h *ResourceHandler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	id, err := h.pathID(r)
	if err != nil {
		return err
	}

	doc, err := h.collection.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound(h.resourceType.Name + " not found")
		}
		return fmt.Errorf("failed to get %s %s: %w", h.resourceType.Name, id, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, doc)
	return nil
}

// HandleUpdate merges the declared fields from the payload into an existing
// document.
func (h *ResourceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) error {
	id, err := h.pathID(r)
	if err != nil {
		return err
	}

	payload, err := decodeDocument(r)
	if err != nil {
		return err
	}

	fields := models.Document{}
	for _, field := range h.resourceType.Fields() {
		if fieldPresent(payload, field) {
			fields[field] = payload[field]
		}
	}
	if len(fields) == 0 {
		return webutil.ErrBadRequest("No updatable fields in request")
	}

	if err := h.collection.Update(r.Context(), id, fields); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound(h.resourceType.Name + " not found")
		}
		return fmt.Errorf("failed to update %s %s: %w", h.resourceType.Name, id, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: h.resourceType.Name + " updated successfully",
	})
	return nil
}

func (h *ResourceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) error {
	id, err := h.pathID(r)
	if err != nil {
		return err
	}

	if err := h.collection.Delete(r.Context(), id); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound(h.resourceType.Name + " not found")
		}
		return fmt.Errorf("failed to delete %s %s: %w", h.resourceType.Name, id, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: h.resourceType.Name + " deleted successfully",
	})
	return nil
}

// pathID extracts and validates the id path parameter. A malformed id is a
// client error, not a store round-trip.
func (h *ResourceHandler) pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", webutil.ErrBadRequest("Invalid " + h.resourceType.Name + " ID format")
	}
	return id, nil
}

func decodeDocument(r *http.Request) (models.Document, error) {
	payload := models.Document{}
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&payload); err != nil {
		return nil, webutil.ErrBadRequestWrap("Invalid request payload", err)
	}
	return payload, nil
}

// fieldPresent treats absent, null and empty-string values as missing.
// Numeric zero counts as present.
func fieldPresent(payload models.Document, field string) bool {
	value, ok := payload[field]
	if !ok || value == nil {
		return false
	}
	if s, isString := value.(string); isString && s == "" {
		return false
	}
	return true
}
