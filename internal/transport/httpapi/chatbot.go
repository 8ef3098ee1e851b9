package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/duma2005/moviedeck/internal/domain"
)

type chatRequest struct {
	Question *string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// handleChat handles POST /chatbot/chat. The question comes from the JSON
// body or the ?question= query parameter; the body wins when both are set.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")

	if r.Body != nil {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Question != nil {
			question = *req.Question
		}
	}

	answer, err := s.chat.Chat(r.Context(), question)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuestion) {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "Vui lòng nhập câu hỏi")
			return
		}
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer.Text})
}
