package handler

import (
	"encoding/json"
	"net/http"
)

// writeError writes a JSON error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeRTF writes an RTF document response
func writeRTF(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "text/rtf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}
