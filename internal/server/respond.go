package server

import (
	"encoding/json"
	"net/http"

	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(cgerrors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(cgerrors.ErrCodeInternal)
	}
	body.Error.Message = cgerrors.UserMessage(err)

	status := cgerrors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, body)
}
