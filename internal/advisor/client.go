package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loan-advisor/internal/domain"
)

// Client define las dos operaciones contra el backend del asesor.
type Client interface {
	SendChatMessage(ctx context.Context, message string) (string, error)
	PredictLenders(ctx context.Context, app domain.LoanApplication) (domain.PredictionOutcome, error)
}

// TransportError envuelve cualquier falla de red o HTTP en un unico tipo con
// mensaje presentable; la causa queda accesible via Unwrap pero nunca se
// muestra tal cual al usuario.
type TransportError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type logger interface {
	Printf(format string, v ...interface{})
}

// HTTPClient implementa Client contra el backend HTTP del asesor.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logger
}

// NewHTTPClient construye un cliente apuntando a la base configurada.
func NewHTTPClient(baseURL string, log any) *HTTPClient {
	l, _ := log.(logger)
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  l,
	}
}

// SendChatMessage envia el texto del usuario y devuelve la respuesta del asistente.
func (c *HTTPClient) SendChatMessage(ctx context.Context, message string) (string, error) {
	reqBody := struct {
		Message string `json:"message"`
	}{Message: message}

	var respBody struct {
		Reply string `json:"reply"`
	}
	if err := c.post(ctx, "/chat", "send chat message",
		"Failed to send message. Please try again.", reqBody, &respBody); err != nil {
		return "", err
	}
	return respBody.Reply, nil
}

// PredictLenders envia la solicitud completa y devuelve el ranking de prestamistas.
func (c *HTTPClient) PredictLenders(ctx context.Context, app domain.LoanApplication) (domain.PredictionOutcome, error) {
	var outcome domain.PredictionOutcome
	if err := c.post(ctx, "/predict-lenders", "predict lenders",
		"Failed to get lender predictions. Please try again.", app, &outcome); err != nil {
		return domain.PredictionOutcome{}, err
	}
	return outcome, nil
}

// post hace exactamente un round trip; sin retries.
func (c *HTTPClient) post(ctx context.Context, path, op, userMsg string, in, out interface{}) error {
	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Message: userMsg, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: userMsg, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Printf("advisor error status %d: %s", resp.StatusCode, string(respBytes))
		}
		return &TransportError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: userMsg,
			Err:     fmt.Errorf("advisor http error: status=%d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: userMsg, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
