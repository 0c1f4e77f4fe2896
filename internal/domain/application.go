package domain

import "fmt"

// Limites de la solicitud de prestamo.
const (
	MaxLoanAmount   = 10_000_000
	MaxAnnualIncome = 100_000_000
	MinCreditScore  = 300
	MaxCreditScore  = 850
)

// Valores permitidos para los campos cerrados.
const (
	EmploymentSalaried     = "salaried"
	EmploymentSelfEmployed = "self-employed"
	EmploymentFreelancer   = "freelancer"
	EmploymentStudent      = "student"

	PurposeHome       = "home"
	PurposeEducation  = "education"
	PurposeBusiness   = "business"
	PurposeVehicle    = "vehicle"
	PurposeStartup    = "startup"
	PurposeEco        = "eco"
	PurposeEmergency  = "emergency"
	PurposeGoldBacked = "gold-backed"

	GenderMale   = "male"
	GenderFemale = "female"
)

var employmentStatuses = map[string]bool{
	EmploymentSalaried:     true,
	EmploymentSelfEmployed: true,
	EmploymentFreelancer:   true,
	EmploymentStudent:      true,
}

var loanPurposes = map[string]bool{
	PurposeHome:       true,
	PurposeEducation:  true,
	PurposeBusiness:   true,
	PurposeVehicle:    true,
	PurposeStartup:    true,
	PurposeEco:        true,
	PurposeEmergency:  true,
	PurposeGoldBacked: true,
}

var genders = map[string]bool{
	GenderMale:   true,
	GenderFemale: true,
}

// ValidEmploymentStatus indica si el valor pertenece al enum cerrado.
func ValidEmploymentStatus(v string) bool { return employmentStatuses[v] }

// ValidLoanPurpose indica si el valor pertenece al enum cerrado.
func ValidLoanPurpose(v string) bool { return loanPurposes[v] }

// ValidGender indica si el valor pertenece al enum cerrado.
func ValidGender(v string) bool { return genders[v] }

// LoanApplication es el perfil financiero que se envia al servicio de prediccion.
// Los tags JSON son el contrato exacto del endpoint /predict-lenders.
type LoanApplication struct {
	LoanAmount       int    `json:"loan_amount"`
	AnnualIncome     int    `json:"annual_income"`
	EmploymentStatus string `json:"employment_status"`
	CreditScore      int    `json:"credit_score"`
	LoanPurpose      string `json:"loan_purpose"`
	Gender           string `json:"gender"`
}

// FieldErrors mapea nombre de campo a mensaje legible; se recalcula completo
// en cada pasada de validacion.
type FieldErrors map[string]string

// Validate aplica la tabla de reglas campo por campo y devuelve el set
// completo de errores. Un set vacio significa solicitud completa.
func (a LoanApplication) Validate() FieldErrors {
	errs := FieldErrors{}

	if a.LoanAmount <= 0 {
		errs["loan_amount"] = "Loan amount must be greater than 0"
	} else if a.LoanAmount > MaxLoanAmount {
		errs["loan_amount"] = "Loan amount cannot exceed ₹1 crore"
	}

	if a.AnnualIncome <= 0 {
		errs["annual_income"] = "Annual income must be greater than 0"
	} else if a.AnnualIncome > MaxAnnualIncome {
		errs["annual_income"] = "Annual income seems too high"
	}

	if !ValidEmploymentStatus(a.EmploymentStatus) {
		errs["employment_status"] = "Please select employment status"
	}

	if a.CreditScore < MinCreditScore || a.CreditScore > MaxCreditScore {
		errs["credit_score"] = fmt.Sprintf("Credit score must be between %d and %d", MinCreditScore, MaxCreditScore)
	}

	if !ValidLoanPurpose(a.LoanPurpose) {
		errs["loan_purpose"] = "Please select loan purpose"
	}

	if !ValidGender(a.Gender) {
		errs["gender"] = "Please select gender"
	}

	return errs
}

// Complete indica si los seis campos estan presentes y son validos.
func (a LoanApplication) Complete() bool {
	return len(a.Validate()) == 0
}
