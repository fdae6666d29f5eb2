package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		detailHandler(domain.ErrBadRequest, http.StatusBadRequest, codeBadRequest),
		messageHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized, unauthorizedMessage),
		messageHandler(domain.ErrNoDocuments, http.StatusNotFound, codeNotFound, "none of the requested files could be fetched"),
		messageHandler(domain.ErrGenerationQuotaExceeded, http.StatusPaymentRequired, codeQuotaExceeded,
			domain.ErrGenerationQuotaExceeded.Error()),
	}
}

// messageHandler answers a sentinel with a fixed message.
func messageHandler(sentinel error, status int, code, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, message)
		return true
	}
}

// detailHandler answers a sentinel with the full error text. Only for errors built from request input.
func detailHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
