package service

import (
	"context"
	"errors"
	"sync"

	"loan-advisor/internal/domain"
)

var (
	ErrFormInvalid   = errors.New("form has validation errors")
	ErrFormSubmitted = errors.New("form already submitted")
)

// FormSession es el estado del camino por formulario: una solicitud editable
// campo a campo, su set de errores y el resultado tras un envio exitoso.
type FormSession struct {
	predictor *PredictService

	mu        sync.Mutex
	app       domain.LoanApplication
	errors    domain.FieldErrors
	submitted bool
	outcome   *domain.PredictionOutcome
}

// defaultApplication son los valores iniciales del formulario.
func defaultApplication() domain.LoanApplication {
	return domain.LoanApplication{
		EmploymentStatus: domain.EmploymentSalaried,
		CreditScore:      700,
		LoanPurpose:      domain.PurposeHome,
		Gender:           domain.GenderMale,
	}
}

func NewFormSession(predictor *PredictService) *FormSession {
	return &FormSession{
		predictor: predictor,
		app:       defaultApplication(),
		errors:    domain.FieldErrors{},
	}
}

// Application devuelve el estado actual de la solicitud.
func (f *FormSession) Application() domain.LoanApplication {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.app
}

// Errors devuelve una copia del set de errores vigente.
func (f *FormSession) Errors() domain.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := domain.FieldErrors{}
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Submitted indica si el formulario llego al estado terminal de resultados.
func (f *FormSession) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// Outcome devuelve el resultado almacenado, o nil si no hay.
func (f *FormSession) Outcome() *domain.PredictionOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcome == nil {
		return nil
	}
	copied := *f.outcome
	return &copied
}

// Editar un campo limpia su error al instante, sin revalidar el resto.
func (f *FormSession) SetLoanAmount(v int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app.LoanAmount = v
	delete(f.errors, "loan_amount")
}

func (f *FormSession) SetAnnualIncome(v int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app.AnnualIncome = v
	delete(f.errors, "annual_income")
}

func (f *FormSession) SetEmploymentStatus(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app.EmploymentStatus = v
	delete(f.errors, "employment_status")
}

func (f *FormSession) SetCreditScore(v int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app.CreditScore = v
	delete(f.errors, "credit_score")
}

func (f *FormSession) SetLoanPurpose(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app.LoanPurpose = v
	delete(f.errors, "loan_purpose")
}

func (f *FormSession) SetGender(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app.Gender = v
	delete(f.errors, "gender")
}

// Validate recalcula el set de errores completo y lo deja vigente.
func (f *FormSession) Validate() domain.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = f.app.Validate()
	out := domain.FieldErrors{}
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Submit valida de forma atomica y, solo con set de errores vacio, envia la
// solicitud. Una falla de validacion no toca el resultado anterior ni emite
// trafico de red; un envio exitoso pasa al estado terminal de resultados.
func (f *FormSession) Submit(ctx context.Context) (*domain.PredictionOutcome, error) {
	f.mu.Lock()
	if f.submitted {
		f.mu.Unlock()
		return nil, ErrFormSubmitted
	}
	f.errors = f.app.Validate()
	if len(f.errors) > 0 {
		f.mu.Unlock()
		return nil, ErrFormInvalid
	}
	app := f.app
	f.mu.Unlock()

	outcome, err := f.predictor.Submit(ctx, app)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.outcome = &outcome
	f.submitted = true
	f.mu.Unlock()

	copied := outcome
	return &copied, nil
}

// Reset limpia resultado, errores y estado terminal, y reaplica los defaults.
func (f *FormSession) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app = defaultApplication()
	f.errors = domain.FieldErrors{}
	f.submitted = false
	f.outcome = nil
}
