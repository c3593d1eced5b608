package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/ATenderholt/rainbow-ingest/internal/service"
)

type BatchHandler interface {
	Handle(ctx context.Context, payload []byte) (domain.BatchResult, error)
}

// IngestHandler exposes the batch pipeline at the platform's invocation
// boundary. A response other than 200 tells the platform to redeliver the
// batch per its retry policy.
type IngestHandler struct {
	coordinator BatchHandler
}

func NewIngestHandler(coordinator BatchHandler) IngestHandler {
	return IngestHandler{coordinator: coordinator}
}

type invocationResponse struct {
	StatusCode int    `json:"statusCode"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
	Message    string `json:"message,omitempty"`
}

func (h IngestHandler) Invoke(response http.ResponseWriter, request *http.Request) {
	payload, err := io.ReadAll(request.Body)
	if err != nil {
		writeResponse(response, invocationResponse{StatusCode: http.StatusBadRequest, Message: "unable to read body"})
		return
	}

	result, err := h.coordinator.Handle(request.Context(), payload)

	var malformed service.MalformedEventError
	if errors.As(err, &malformed) {
		writeResponse(response, invocationResponse{StatusCode: http.StatusBadRequest, Message: err.Error()})
		return
	}

	if err != nil {
		writeResponse(response, invocationResponse{
			StatusCode: http.StatusInternalServerError,
			Processed:  len(result.Outcomes),
			Failed:     result.Failed,
			Message:    err.Error(),
		})
		return
	}

	if !result.Ok() {
		writeResponse(response, invocationResponse{
			StatusCode: http.StatusInternalServerError,
			Processed:  len(result.Outcomes),
			Failed:     result.Failed,
			Message:    "one or more records failed",
		})
		return
	}

	writeResponse(response, invocationResponse{
		StatusCode: http.StatusOK,
		Processed:  len(result.Outcomes),
	})
}

func (h IngestHandler) Health(response http.ResponseWriter, request *http.Request) {
	response.WriteHeader(http.StatusOK)
	_, _ = response.Write([]byte("ok"))
}

func writeResponse(response http.ResponseWriter, body invocationResponse) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(body.StatusCode)

	err := json.NewEncoder(response).Encode(body)
	if err != nil {
		logger.Errorf("Unable to encode response: %v", err)
	}
}
