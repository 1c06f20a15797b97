// Package handlers provides the HTTP layer of the gateway. Each endpoint
// resolves to exactly one (query builder, transaction mode, shaper) triple;
// the handlers orchestrate execution against the store and translate the
// core's error taxonomy into HTTP responses, but never build query text or
// interpret result documents themselves.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pagegate/pagegate/internal/shape"
	"github.com/pagegate/pagegate/internal/store"
	"github.com/pagegate/pagegate/internal/typeql"
	"github.com/pagegate/pagegate/pkg/types"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIHandlers contains the HTTP handlers for the gateway API.
type APIHandlers struct {
	store store.Client
	hub   *EventHub
}

// NewAPIHandlers creates handlers over the shared store client. hub may be
// nil when event broadcasting is disabled.
func NewAPIHandlers(client store.Client, hub *EventHub) *APIHandlers {
	return &APIHandlers{store: client, hub: hub}
}

// ListPages handles GET /api/pages - every page with its summary fields.
func (h *APIHandlers) ListPages(w http.ResponseWriter, r *http.Request) {
	docs, err := h.readQuery(r.Context(), typeql.PageListQuery())
	if err != nil {
		respondFailure(w, err)
		return
	}

	pages, err := shape.PageSummariesFromDocuments(docs)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pages)
}

// GetPlacePages handles GET /api/location/{place_id} - the place's name and
// the pages transitively located there. An unknown place id responds with
// null, not an error.
func (h *APIHandlers) GetPlacePages(w http.ResponseWriter, r *http.Request) {
	placeID := r.PathValue("place_id")
	if placeID == "" {
		respondError(w, http.StatusBadRequest, "place id is required", nil)
		return
	}

	query, err := typeql.PlacePagesQuery(placeID)
	if err != nil {
		respondFailure(w, err)
		return
	}

	docs, err := h.readQuery(r.Context(), query)
	if err != nil {
		respondFailure(w, err)
		return
	}
	if len(docs) == 0 {
		respondJSON(w, http.StatusOK, nil)
		return
	}

	result, err := shape.PlacePagesFromDocument(docs[0])
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetProfile handles GET /api/user/{id}, /api/group/{id} and
// /api/organization/{id} - the full projection of a single page, or null
// when the id matches nothing.
func (h *APIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "page id is required", nil)
		return
	}

	query, err := typeql.ProfileQuery(id)
	if err != nil {
		respondFailure(w, err)
		return
	}

	docs, err := h.readQuery(r.Context(), query)
	if err != nil {
		respondFailure(w, err)
		return
	}
	if len(docs) == 0 {
		respondJSON(w, http.StatusOK, nil)
		return
	}

	profile, err := shape.ProfileFromDocument(docs[0])
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GetPosts handles GET /api/posts?pageId= - the page's posts, author-enriched.
func (h *APIHandlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("pageId")
	if pageID == "" {
		respondError(w, http.StatusBadRequest, "pageId is required", nil)
		return
	}

	query, err := typeql.PostsQuery(pageID)
	if err != nil {
		respondFailure(w, err)
		return
	}

	docs, err := h.readQuery(r.Context(), query)
	if err != nil {
		respondFailure(w, err)
		return
	}

	posts, err := shape.PostsFromDocuments(docs)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetComments handles GET /api/comments?postId= - the post's comments,
// author-enriched.
func (h *APIHandlers) GetComments(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		respondError(w, http.StatusBadRequest, "postId is required", nil)
		return
	}

	query, err := typeql.CommentsQuery(postID)
	if err != nil {
		respondFailure(w, err)
		return
	}

	docs, err := h.readQuery(r.Context(), query)
	if err != nil {
		respondFailure(w, err)
		return
	}

	comments, err := shape.CommentsFromDocuments(docs)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// CreateUser handles POST /api/create-user.
func (h *APIHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload types.CreatePerson
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	query, err := typeql.InsertPersonQuery(payload)
	if err != nil {
		respondFailure(w, err)
		return
	}
	h.runCreate(r.Context(), w, query, types.PagePerson)
}

// CreateGroup handles POST /api/create-group.
func (h *APIHandlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var payload types.CreateGroup
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	query, err := typeql.InsertGroupQuery(payload)
	if err != nil {
		respondFailure(w, err)
		return
	}
	h.runCreate(r.Context(), w, query, types.PageGroup)
}

// CreateOrganization handles POST /api/create-organization.
func (h *APIHandlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var payload types.CreateOrganization
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	query, err := typeql.InsertOrganizationQuery(payload)
	if err != nil {
		respondFailure(w, err)
		return
	}
	h.runCreate(r.Context(), w, query, types.PageOrganization)
}

// readQuery runs one fetch query in a read transaction. The transaction is
// always closed uncommitted; the request context carries cancellation so a
// disconnected client abandons the transaction.
func (h *APIHandlers) readQuery(ctx context.Context, query string) ([]store.Document, error) {
	tx, err := h.store.Transaction(ctx, store.Read)
	if err != nil {
		return nil, err
	}
	defer tx.Close(ctx)

	result, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return result.Documents, nil
}

// writeQuery runs one insert statement in a write transaction and commits
// only after the result was drained without error. Any failure leaves the
// transaction to be closed uncommitted.
func (h *APIHandlers) writeQuery(ctx context.Context, query string) error {
	tx, err := h.store.Transaction(ctx, store.Write)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)

	if _, err := tx.Query(ctx, query); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (h *APIHandlers) runCreate(ctx context.Context, w http.ResponseWriter, query string, pageType types.PageType) {
	if err := h.writeQuery(ctx, query); err != nil {
		respondFailure(w, err)
		return
	}
	if h.hub != nil {
		h.hub.Broadcast(Event{Event: "page.created", PageType: pageType.String()})
	}
	respondJSON(w, http.StatusOK, nil)
}

// respondFailure classifies an error from the core into the external
// response contract: encoding problems are the caller's fault, shape
// violations are our defect, store failures are upstream trouble.
func respondFailure(w http.ResponseWriter, err error) {
	var encodingErr *typeql.EncodingError
	var shapeErr *shape.ShapeError
	var storeErr *store.StoreError

	switch {
	case errors.As(err, &encodingErr):
		respondError(w, http.StatusBadRequest, "value cannot be encoded", err)
	case errors.As(err, &shapeErr):
		respondError(w, http.StatusInternalServerError, "malformed store result", err)
	case errors.Is(err, store.ErrCircuitOpen):
		respondError(w, http.StatusServiceUnavailable, "store unavailable", err)
	case errors.As(err, &storeErr):
		respondError(w, http.StatusBadGateway, "store request failed", err)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; nothing more to do.
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}
	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}
