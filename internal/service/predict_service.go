package service

import (
	"context"
	"errors"

	"loan-advisor/internal/advisor"
	"loan-advisor/internal/domain"
)

var ErrPredictServiceNotConfigured = errors.New("predict service not configured")

// ValidationError agrupa los errores por campo cuando una solicitud no pasa
// la tabla de validacion.
type ValidationError struct {
	Fields domain.FieldErrors
}

func (e *ValidationError) Error() string {
	return "loan application is not valid"
}

// PredictService es la capacidad compartida de "enviar solicitud": los dos
// caminos (chat y formulario) convergen aca.
type PredictService struct {
	client advisor.Client
}

func NewPredictService(client advisor.Client) *PredictService {
	return &PredictService{client: client}
}

// Submit revalida la solicitud contra la tabla de reglas y, si esta completa,
// hace exactamente una llamada de prediccion. La revalidacion cubre el borde
// de confianza: un payload extraido del chat con valores fuera de rango no
// llega al servicio remoto.
func (s *PredictService) Submit(ctx context.Context, app domain.LoanApplication) (domain.PredictionOutcome, error) {
	if s == nil || s.client == nil {
		return domain.PredictionOutcome{}, ErrPredictServiceNotConfigured
	}

	if errs := app.Validate(); len(errs) > 0 {
		return domain.PredictionOutcome{}, &ValidationError{Fields: errs}
	}

	return s.client.PredictLenders(ctx, app)
}
