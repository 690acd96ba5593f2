package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dnazarov/clientstore-api/internal/apierr"
	"github.com/dnazarov/clientstore-api/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, payload model.Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, model.Response{Success: true, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, message string, data any, count int) {
	writeJSON(w, http.StatusOK, model.Response{Success: true, Message: message, Data: data, Count: &count})
}

func writeError(w http.ResponseWriter, err error) {
	apiErr := apierr.From(err)
	if apiErr.Status >= http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	writeJSON(w, apiErr.Status, model.Response{
		Success: false,
		Message: apiErr.Message,
		Code:    apiErr.Code,
	})
}
