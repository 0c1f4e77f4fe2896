package domain

// Lender es un prestamista sugerido por el servicio de prediccion. El orden
// en que llega la lista es el ranking de presentacion; el cliente no reordena.
type Lender struct {
	Name         string  `json:"name"`
	InterestRate float64 `json:"interest_rate"`
	MatchScore   float64 `json:"match_score"`
}

// PredictionOutcome es el resultado completo de una prediccion: narrativa
// opcional del asesor mas el ranking de prestamistas. Cada prediccion nueva
// reemplaza por completo a la anterior; nunca se mezclan.
type PredictionOutcome struct {
	LLMResponse string   `json:"llm_response,omitempty"`
	TopLenders  []Lender `json:"top_lenders"`
}
