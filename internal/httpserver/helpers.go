package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies read by DecodeJSONBody.
const MaxBodyBytes = 4 << 20

type ErrorResponse struct {
	Error string `json:"error"`
}

func ReplyWithError(w http.ResponseWriter, statusCode int, errMsg string) {
	ReplyJSONResponse(w, statusCode, &ErrorResponse{Error: errMsg})
}

func ReplyJSONResponse(w http.ResponseWriter, statusCode int, output interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(output)
}

// ReadBody returns the raw request body, at most MaxBodyBytes long.
func ReadBody(r *http.Request) ([]byte, error) {
	reqBody, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if len(reqBody) > MaxBodyBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
	}
	return reqBody, nil
}

func DecodeJSONBody(r *http.Request, placeholder any) error {
	reqBody, err := ReadBody(r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(reqBody, placeholder); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}
