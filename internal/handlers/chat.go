package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"mfadvisor-backend/internal/models"
)

// crewRunner is the slice of the crew service the chat handler needs.
type crewRunner interface {
	Kickoff(ctx context.Context, inputs map[string]any) (*models.Run, error)
}

type ChatHandler struct {
	crew crewRunner
}

func NewChatHandler(crew crewRunner) *ChatHandler {
	return &ChatHandler{crew: crew}
}

// Chat handles one conversational turn: decode the form payload and
// history, run the advisor crew, reply with the final task output.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req := models.DefaultChatRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	inputs := req.ToInputs()

	run, err := h.crew.Kickoff(r.Context(), inputs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("CREW_ERROR", err.Error(), r))
		return
	}

	reply := ""
	if run.Reply != nil {
		reply = *run.Reply
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply, Inputs: inputs})
}
