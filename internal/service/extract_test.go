package service

import (
	"testing"

	"loan-advisor/internal/domain"
)

const validPayload = `{"loan_amount":500000,"annual_income":1200000,"employment_status":"salaried","credit_score":750,"loan_purpose":"home","gender":"male"}`

func TestExtractApplication_NoMarker(t *testing.T) {
	texts := []string{
		"",
		"Tell me more about your income.",
		`{"loan_amount":500000}`,
		"READY_TO_PREDICT without brackets " + validPayload,
	}
	for _, text := range texts {
		if _, ok := ExtractApplication(text); ok {
			t.Fatalf("expected no data for %q", text)
		}
	}
}

func TestExtractApplication_MarkerWithoutBraces(t *testing.T) {
	texts := []string{
		"All set! [READY_TO_PREDICT]",
		"[READY_TO_PREDICT] but no payload here",
		"[READY_TO_PREDICT] only opens {",
	}
	for _, text := range texts {
		if _, ok := ExtractApplication(text); ok {
			t.Fatalf("expected no data for %q", text)
		}
	}
}

func TestExtractApplication_BraceBeforeMarkerOnly(t *testing.T) {
	// El unico '}' del texto queda antes del primer '{' posterior al marcador.
	text := `{"noise":1} [READY_TO_PREDICT] {`
	if _, ok := ExtractApplication(text); ok {
		t.Fatalf("expected no data when braces do not enclose a payload")
	}
}

func TestExtractApplication_MalformedPayload(t *testing.T) {
	text := `[READY_TO_PREDICT] {"loan_amount":500000,`
	if _, ok := ExtractApplication(text); ok {
		t.Fatalf("expected malformed payload to yield no data, never an error")
	}
}

func TestExtractApplication_MissingAnyRequiredKey(t *testing.T) {
	payloads := []string{
		`{"annual_income":1200000,"employment_status":"salaried","credit_score":750,"loan_purpose":"home","gender":"male"}`,
		`{"loan_amount":500000,"employment_status":"salaried","credit_score":750,"loan_purpose":"home","gender":"male"}`,
		`{"loan_amount":500000,"annual_income":1200000,"credit_score":750,"loan_purpose":"home","gender":"male"}`,
		`{"loan_amount":500000,"annual_income":1200000,"employment_status":"salaried","loan_purpose":"home","gender":"male"}`,
		`{"loan_amount":500000,"annual_income":1200000,"employment_status":"salaried","credit_score":750,"gender":"male"}`,
		`{"loan_amount":500000,"annual_income":1200000,"employment_status":"salaried","credit_score":750,"loan_purpose":"home"}`,
	}
	for _, payload := range payloads {
		if _, ok := ExtractApplication("[READY_TO_PREDICT] " + payload); ok {
			t.Fatalf("expected no data for payload %s", payload)
		}
	}
}

func TestExtractApplication_TruthyZeroTreatedAsMissing(t *testing.T) {
	// Looseness heredada del contrato: cero o vacio cuenta como faltante.
	payloads := []string{
		`{"loan_amount":0,"annual_income":1200000,"employment_status":"salaried","credit_score":750,"loan_purpose":"home","gender":"male"}`,
		`{"loan_amount":500000,"annual_income":1200000,"employment_status":"","credit_score":750,"loan_purpose":"home","gender":"male"}`,
	}
	for _, payload := range payloads {
		if _, ok := ExtractApplication("[READY_TO_PREDICT] " + payload); ok {
			t.Fatalf("expected zero/empty field to count as missing in %s", payload)
		}
	}
}

func TestExtractApplication_WellFormedPayload(t *testing.T) {
	text := "Great, I have everything I need! [READY_TO_PREDICT] " + validPayload
	app, ok := ExtractApplication(text)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}

	want := domain.LoanApplication{
		LoanAmount:       500000,
		AnnualIncome:     1200000,
		EmploymentStatus: domain.EmploymentSalaried,
		CreditScore:      750,
		LoanPurpose:      domain.PurposeHome,
		Gender:           domain.GenderMale,
	}
	if app != want {
		t.Fatalf("expected %+v, got %+v", want, app)
	}
}

func TestExtractApplication_SurroundingProseAndLastBrace(t *testing.T) {
	// El payload va desde el primer '{' tras el marcador hasta el ultimo '}'
	// de todo el texto; la prosa alrededor no molesta.
	text := "Perfect. [READY_TO_PREDICT]\nHere is your profile:\n" + validPayload + "\nGood luck!"
	app, ok := ExtractApplication(text)
	if !ok {
		t.Fatalf("expected extraction to succeed with surrounding prose")
	}
	if app.CreditScore != 750 {
		t.Fatalf("expected credit score 750, got %d", app.CreditScore)
	}

	// Texto despues del ultimo '}' con otro '}' rompe el JSON: no hay datos.
	broken := "[READY_TO_PREDICT] " + validPayload + " extra }"
	if _, ok := ExtractApplication(broken); ok {
		t.Fatalf("expected trailing brace to spoil the candidate payload")
	}
}
