package api

import (
	"net/http"

	"github.com/okian/bfhl/internal/domain/types"
)

// BFHLHandler handles the multiplexed operation endpoint.
type BFHLHandler struct {
	dispatcher   Dispatcher
	email        string
	maxBodyBytes int64
}

// NewBFHLHandler creates a new operation handler.
func NewBFHLHandler(d Dispatcher, email string, maxBodyBytes int64) *BFHLHandler {
	return &BFHLHandler{dispatcher: d, email: email, maxBodyBytes: maxBodyBytes}
}

// HandleBFHL handles POST /bfhl requests.
func (h *BFHLHandler) HandleBFHL(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	data, err := h.dispatcher.Dispatch(r.Context(), body)
	if err != nil {
		writeError(w, h.email, err)
		return
	}
	writeJSON(w, http.StatusOK, types.Success(h.email, data))
}
