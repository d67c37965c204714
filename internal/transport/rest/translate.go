package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/translator"
)

// maxBodyBytes caps the size of a translation request.
const maxBodyBytes = 1 << 20

// translatorService defines the minimal interface needed by TranslateHandler.
type translatorService interface {
	Translate(ctx context.Context, langIn, langOut, text string) (string, error)
	Languages(ctx context.Context) ([]translator.Pair, error)
}

// TranslateHandler serves the translation API.
type TranslateHandler struct {
	svc translatorService
	log *slog.Logger
}

// NewTranslateHandler creates a TranslateHandler.
func NewTranslateHandler(svc translatorService, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{svc: svc, log: logger.With("handler", "translate")}
}

// TranslateRequest is the body of POST /api/translate and of every
// websocket message.
type TranslateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// TranslateResponse carries either the translation or an error message.
type TranslateResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

type languagesResponse struct {
	Pairs []translator.Pair `json:"pairs"`
}

// Languages handles GET /api/languages.
func (h *TranslateHandler) Languages(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.svc.Languages(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if pairs == nil {
		pairs = []translator.Pair{}
	}
	writeJSON(w, http.StatusOK, languagesResponse{Pairs: pairs})
}

// Translate handles POST /api/translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.svc.Translate(r.Context(), req.From, req.To, req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TranslateResponse{Text: text})
}

func (h *TranslateHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
	}
	writeError(w, status, message)
}

// ErrorStatus maps a domain error to an HTTP status and a client-safe message.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDictionaryNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrIncompatibleVersion):
		return http.StatusConflict, "stored data was written by an incompatible version, rebuild it"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, TranslateResponse{Error: message})
}
