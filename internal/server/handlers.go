package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/voyagehq/itinera/internal/guardrail"
	"github.com/voyagehq/itinera/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleTravelAssistant(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)

	var query models.TravelQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("travel query received",
		zap.String("request_id", requestID),
		zap.Int("query_len", len(query.Query)),
	)

	advice, err := s.assistant.Advise(r.Context(), query.Query)
	if err != nil {
		if errors.Is(err, guardrail.ErrBanned) {
			s.logger.Info("query rejected by guardrail", zap.String("request_id", requestID))
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("advice pipeline failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, advice)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Travel Assistant API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"indexed_items":   s.assistant.IndexSize(),
		"embedding_model": s.assistant.EmbeddingModel(),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
