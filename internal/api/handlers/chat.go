package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/openai"
)

type ChatService interface {
	Answer(ctx context.Context, question string) (string, error)
	AnswerStream(ctx context.Context, question string) (<-chan openai.StreamChunk, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Answer(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{Answer: answer})
}

// AskStream relays generation chunks as server-sent events. Each chunk is
// one `data:` line; the stream ends with `data: [DONE]`. A mid-stream
// provider failure becomes an `event: error` before closing.
func (h *ChatHandler) AskStream(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	stream, err := h.svc.AnswerStream(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for chunk := range stream {
		if chunk.Err != nil {
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", "generation failed")
			flusher.Flush()
			return
		}

		payload, err := json.Marshal(ChatResponse{Answer: chunk.Text})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
