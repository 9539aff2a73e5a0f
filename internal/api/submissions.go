package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ikigai-ua/formrelay/internal/service"
)

// Caller-facing messages.
const (
	msgMethodNotAllowed     = "Method Not Allowed"
	msgBodyRequired         = "Request body is required."
	msgInvalidJSONBody      = "Invalid JSON body."
	msgBodyTooLarge         = "Request body is too large."
	msgNameAndPhoneRequired = "Name and phone are required."
	msgSubmitted            = "Заявку успішно надіслано!"
	msgServerError          = "Виникла помилка на сервері."
)

// maxBodyBytes bounds the form payload.
const maxBodyBytes = 64 << 10

var errEmptyBody = errors.New("empty body")

type submitRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// handleSubmitForm accepts a contact-form submission. The response is 200 as
// soon as the operator was notified, whether or not the record was stored.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeText(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	req, err := decodeSubmitRequest(w, r)
	if err != nil {
		if errors.Is(err, errEmptyBody) {
			s.logger.Warn("request body is empty")
			writeText(w, http.StatusBadRequest, msgBodyRequired)
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.logger.Warn("request body too large", "limit", tooLarge.Limit)
			writeText(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		s.logger.Warn("invalid request body", "error", err)
		writeText(w, http.StatusBadRequest, msgInvalidJSONBody)
		return
	}

	_, err = s.submissionSvc.Submit(r.Context(), service.SubmissionInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeText(w, http.StatusBadRequest, msgNameAndPhoneRequired)
			return
		}
		s.logger.Error("submission failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	writeMessage(w, http.StatusOK, msgSubmitted)
}

// decodeSubmitRequest reads the JSON body. An absent body, an empty one and
// a literal null all count as missing.
func decodeSubmitRequest(w http.ResponseWriter, r *http.Request) (*submitRequest, error) {
	if r.Body == nil {
		return nil, errEmptyBody
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmptyBody
	}

	var req *submitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errEmptyBody
	}
	return req, nil
}
