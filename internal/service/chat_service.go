package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loan-advisor/internal/advisor"
	"loan-advisor/internal/domain"
)

// Textos fijos que ve el usuario; vienen del producto, no se traducen aca.
const (
	greetingText = "Hi! I'm your Loan Advisor Assistant. I can help you find the best loan options based on your financial profile. Just tell me about your loan requirements, income, employment status, and I'll guide you through the process!"

	chatApologyText = "I apologize, but I'm having trouble connecting right now. Please try again in a moment."

	predictionApologyText = "I apologize, but I encountered an error while fetching lender recommendations. Please try again."
)

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrEmptyMessage             = errors.New("message is empty")
	ErrSessionBusy              = errors.New("session has a request in flight")
)

// SessionState es el estado de la maquina de una sesion de chat.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingChatReply
	StateAwaitingPrediction
	StateReady
)

// ChatSession es el estado privado de una conversacion: historial append-only,
// estado de la maquina y el ultimo resultado de prediccion. No sobrevive al
// proceso; se descarta cuando la sesion termina.
type ChatSession struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    SessionState
	messages []domain.Message
	outcome  *domain.PredictionOutcome
}

// Messages devuelve una copia del historial en orden cronologico.
func (s *ChatSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Outcome devuelve el ultimo resultado de prediccion, o nil si no hay.
func (s *ChatSession) Outcome() *domain.PredictionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return nil
	}
	copied := *s.outcome
	return &copied
}

// State devuelve el estado actual de la sesion.
func (s *ChatSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ChatSession) append(role, content string) domain.Message {
	msg := domain.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// SendResult agrupa lo que produjo un turno: los mensajes agregados y, si la
// extraccion y la prediccion funcionaron, el resultado nuevo.
type SendResult struct {
	Messages []domain.Message
	Outcome  *domain.PredictionOutcome
}

// ChatService orquesta el ciclo request/respuesta del chat: llama al backend,
// corre el extractor sobre la respuesta y dispara la prediccion cuando hay
// solicitud completa.
type ChatService struct {
	client    advisor.Client
	predictor *PredictService
	logger    *zap.Logger
}

func NewChatService(client advisor.Client, predictor *PredictService, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		client:    client,
		predictor: predictor,
		logger:    logger,
	}
}

// NewSession crea una sesion con el saludo inicial del asistente.
func (s *ChatService) NewSession() *ChatSession {
	sess := &ChatSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		state:     StateIdle,
	}
	sess.append(domain.RoleAssistant, greetingText)
	return sess
}

// Send procesa un turno del usuario. Texto vacio y sesiones con una llamada
// en vuelo se rechazan sin tocar estado. Las fallas de transporte nunca
// llegan crudas al usuario: se agrega un mensaje de disculpa en su lugar.
func (s *ChatService) Send(ctx context.Context, sess *ChatSession, text string) (SendResult, error) {
	if s == nil || s.client == nil || s.predictor == nil {
		return SendResult{}, ErrChatServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return SendResult{}, ErrEmptyMessage
	}

	sess.mu.Lock()
	if sess.state == StateAwaitingChatReply || sess.state == StateAwaitingPrediction {
		sess.mu.Unlock()
		return SendResult{}, ErrSessionBusy
	}
	sess.state = StateAwaitingChatReply
	userMsg := sess.append(domain.RoleUser, text)
	sess.mu.Unlock()

	result := SendResult{Messages: []domain.Message{userMsg}}

	reply, err := s.client.SendChatMessage(ctx, text)
	if err != nil {
		s.logger.Warn("chat call failed", zap.String("session_id", sess.ID), zap.Error(err))
		sess.mu.Lock()
		result.Messages = append(result.Messages, sess.append(domain.RoleAssistant, chatApologyText))
		sess.state = StateIdle
		sess.mu.Unlock()
		return result, nil
	}

	sess.mu.Lock()
	result.Messages = append(result.Messages, sess.append(domain.RoleAssistant, reply))

	app, ok := ExtractApplication(reply)
	if !ok {
		// Marcador presente pero payload inutilizable: se loguea y se sigue
		// como si no hubiera datos; jamas se corta la conversacion por esto.
		if strings.Contains(reply, ReadyMarker) {
			s.logger.Warn("embedded payload present but unusable", zap.String("session_id", sess.ID))
		}
		sess.state = StateIdle
		sess.mu.Unlock()
		return result, nil
	}
	sess.state = StateAwaitingPrediction
	sess.mu.Unlock()

	outcome, err := s.predictor.Submit(ctx, app)
	if err != nil {
		s.logger.Warn("prediction after extraction failed", zap.String("session_id", sess.ID), zap.Error(err))
		sess.mu.Lock()
		result.Messages = append(result.Messages, sess.append(domain.RoleAssistant, predictionApologyText))
		sess.state = StateIdle
		sess.mu.Unlock()
		return result, nil
	}

	sess.mu.Lock()
	sess.outcome = &outcome
	sess.state = StateReady
	sess.mu.Unlock()

	copied := outcome
	result.Outcome = &copied
	return result, nil
}
