package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-advisor/internal/advisor"
	"loan-advisor/internal/service"
)

const replyWithPayload = `All set! [READY_TO_PREDICT] {"loan_amount":500000,"annual_income":1200000,"employment_status":"salaried","credit_score":750,"loan_purpose":"home","gender":"male"}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(mock *advisor.MockClient, jwtSvc *service.JWTService, limiter service.RateLimiter) (*gin.Engine, service.SessionStore) {
	logger := zap.NewNop()
	predictSvc := service.NewPredictService(mock)
	chatSvc := service.NewChatService(mock, predictSvc, logger)
	sessions := service.NewMemorySessionStore()
	if jwtSvc == nil {
		jwtSvc = service.NewJWTService("", time.Hour)
	}
	chatH := NewChatHandler(logger, chatSvc, sessions, jwtSvc)
	formH := NewFormHandler(logger, predictSvc)
	return NewRouter(logger, chatH, formH, jwtSvc, limiter), sessions
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/session", nil, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatalf("expected a session id")
	}
	return resp.SessionID
}

func TestCreateSession_IncludesGreeting(t *testing.T) {
	router, _ := newTestRouter(&advisor.MockClient{}, nil, nil)

	w := doJSON(t, router, http.MethodPost, "/session", nil, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Role != "assistant" {
		t.Fatalf("expected one assistant greeting, got %+v", resp.Messages)
	}
}

func TestPostMessage_PlainReply(t *testing.T) {
	mock := &advisor.MockClient{Reply: "What amount do you need?"}
	router, _ := newTestRouter(mock, nil, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/session/"+id+"/message", gin.H{"content": "I need a loan"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		Prediction *json.RawMessage `json:"prediction"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected user + assistant messages, got %d", len(resp.Messages))
	}
	if resp.Prediction != nil && string(*resp.Prediction) != "null" {
		t.Fatalf("expected no prediction, got %s", string(*resp.Prediction))
	}
	if mock.PredictCalls != 0 {
		t.Fatalf("expected no prediction call")
	}
}

func TestPostMessage_PayloadTriggersPrediction(t *testing.T) {
	mock := &advisor.MockClient{
		Reply:   replyWithPayload,
		Outcome: sampleHandlerOutcome(),
	}
	router, sessions := newTestRouter(mock, nil, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/session/"+id+"/message", gin.H{"content": "my details"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Prediction *struct {
			TopLenders []struct {
				Name string `json:"name"`
			} `json:"top_lenders"`
		} `json:"prediction"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Prediction == nil || len(resp.Prediction.TopLenders) == 0 {
		t.Fatalf("expected prediction with lenders, got %s", w.Body.String())
	}

	sess, err := sessions.Get(id)
	if err != nil {
		t.Fatalf("expected session stored, got %v", err)
	}
	if sess.Outcome() == nil {
		t.Fatalf("expected outcome stored on the session")
	}
}

func TestPostMessage_UnknownSession(t *testing.T) {
	router, _ := newTestRouter(&advisor.MockClient{}, nil, nil)
	w := doJSON(t, router, http.MethodPost, "/session/nope/message", gin.H{"content": "hi"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPostMessage_MissingContent(t *testing.T) {
	router, _ := newTestRouter(&advisor.MockClient{}, nil, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/session/"+id+"/message", gin.H{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListMessages_ReturnsHistoryAndOutcome(t *testing.T) {
	mock := &advisor.MockClient{Reply: replyWithPayload, Outcome: sampleHandlerOutcome()}
	router, _ := newTestRouter(mock, nil, nil)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPost, "/session/"+id+"/message", gin.H{"content": "details"}, nil)

	w := doJSON(t, router, http.MethodGet, "/session/"+id+"/messages", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Messages   []json.RawMessage `json:"messages"`
		Prediction *json.RawMessage  `json:"prediction"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 3 {
		t.Fatalf("expected greeting + user + assistant, got %d", len(resp.Messages))
	}
	if resp.Prediction == nil || string(*resp.Prediction) == "null" {
		t.Fatalf("expected stored prediction in listing")
	}
}

func TestSessionAuth_TokenRequiredWhenEnabled(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	mock := &advisor.MockClient{Reply: "ok"}
	router, _ := newTestRouter(mock, jwtSvc, nil)

	w := doJSON(t, router, http.MethodPost, "/session", nil, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var resp struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a session token when secret configured")
	}

	path := "/session/" + resp.SessionID + "/message"
	body := gin.H{"content": "hi"}

	if w := doJSON(t, router, http.MethodPost, path, body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	headers := map[string]string{"Authorization": "Bearer " + resp.Token}
	if w := doJSON(t, router, http.MethodPost, path, body, headers); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, http.MethodPost, "/session/other/message", body, headers); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mismatched session, got %d", w.Code)
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestRateLimit_Denied(t *testing.T) {
	router, _ := newTestRouter(&advisor.MockClient{}, nil, denyAllLimiter{})
	w := doJSON(t, router, http.MethodPost, "/session", nil, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}
