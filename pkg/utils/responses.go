package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope shared by every endpoint. Errors maps a json
// field name to its message and is only set when validation fails.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeResponse(w http.ResponseWriter, code int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	writeResponse(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	writeResponse(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// ResponseValidation returns 400 with one message per invalid field.
func ResponseValidation(w http.ResponseWriter, fields map[string]string) {
	writeResponse(w, http.StatusBadRequest, Response{Message: "Validation failed", Errors: fields})
}

// ResponseError writes a failure envelope carrying only a message.
func ResponseError(w http.ResponseWriter, code int, message string) {
	writeResponse(w, code, Response{Message: message})
}

func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusBadRequest, message)
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message)
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, message)
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message)
}

func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message)
}
