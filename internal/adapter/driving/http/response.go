package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// SearchResultResponse is the JSON representation of a repository search hit.
// Field names follow the GitHub REST shape so clients can reuse their types.
type SearchResultResponse struct {
	ID              int64         `json:"id"`
	FullName        string        `json:"full_name"`
	Description     string        `json:"description,omitempty"`
	Owner           OwnerResponse `json:"owner"`
	StargazersCount int           `json:"stargazers_count"`
}

// OwnerResponse is the JSON representation of a search result owner.
type OwnerResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toSearchResultResponse(r model.SearchResult) SearchResultResponse {
	return SearchResultResponse{
		ID:          r.ID,
		FullName:    r.FullName,
		Description: r.Description,
		Owner: OwnerResponse{
			Login:     r.Owner.Login,
			AvatarURL: r.Owner.AvatarURL,
		},
		StargazersCount: r.StargazersCount,
	}
}
