package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mesh-intelligence/notebook/internal/api"
	"github.com/mesh-intelligence/notebook/pkg/notebook"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// maxBodyBytes caps the size of a GraphQL request body.
const maxBodyBytes = 1 << 20

// apiResult is the envelope of the read-only JSON API.
type apiResult struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sendAPIResult(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, apiResult{Status: status, Message: message, Data: data})
}

// graphqlError writes a request-level failure in GraphQL response shape.
func graphqlError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]string{{"message": message}},
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		graphqlError(w, status, err.Error())
		return
	}
	if req.Query == "" {
		graphqlError(w, http.StatusBadRequest, "query is required")
		return
	}
	writeJSON(w, http.StatusOK, s.api.Do(r.Context(), req))
}

// decodeRequest reads a GraphQL request from query parameters (GET), a raw
// application/graphql body, or a JSON body.
func decodeRequest(w http.ResponseWriter, r *http.Request) (api.Request, error) {
	var req api.Request
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return req, fmt.Errorf("invalid variables: %w", err)
			}
		}
		return req, nil
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/graphql" {
		data, err := io.ReadAll(body)
		if err != nil {
			return req, fmt.Errorf("reading body: %w", err)
		}
		req.Query = string(data)
		return req, nil
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	var (
		data  any
		count int
		err   error
	)
	switch table {
	case types.CategoriesTable:
		var cats []*types.Category
		cats, err = s.svc.ListCategories(r.Context())
		data, count = cats, len(cats)
	case types.NotesTable:
		var notes []*types.Note
		notes, err = s.svc.ListNotes(r.Context())
		data, count = notes, len(notes)
	case types.TagsTable:
		var tags []*types.Tag
		tags, err = s.svc.ListTags(r.Context())
		data, count = tags, len(tags)
	default:
		sendAPIResult(w, http.StatusNotFound, fmt.Sprintf("unknown table %q", table), nil)
		return
	}
	if err != nil {
		sendAPIResult(w, statusOf(err), err.Error(), nil)
		return
	}
	sendAPIResult(w, http.StatusOK, fmt.Sprintf("Found %d %s", count, table), data)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	table, id := vars["table"], vars["id"]
	var (
		data  any
		found bool
		err   error
	)
	switch table {
	case types.CategoriesTable:
		var c *types.Category
		c, err = s.svc.GetCategory(r.Context(), id)
		data, found = c, c != nil
	case types.NotesTable:
		var n *types.Note
		n, err = s.svc.GetNote(r.Context(), id)
		data, found = n, n != nil
	case types.TagsTable:
		var t *types.Tag
		t, err = s.svc.GetTag(r.Context(), id)
		data, found = t, t != nil
	default:
		sendAPIResult(w, http.StatusNotFound, fmt.Sprintf("unknown table %q", table), nil)
		return
	}
	if err != nil {
		sendAPIResult(w, statusOf(err), err.Error(), nil)
		return
	}
	if !found {
		sendAPIResult(w, http.StatusNotFound, "not found", nil)
		return
	}
	sendAPIResult(w, http.StatusOK, "found", data)
}

func statusOf(err error) int {
	switch notebook.KindOf(err) {
	case notebook.KindValidation:
		return http.StatusBadRequest
	case notebook.KindNotFound:
		return http.StatusNotFound
	case notebook.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
