package service

import (
	"encoding/json"
	"strings"

	"loan-advisor/internal/domain"
)

// ReadyMarker es el token literal con el que el backend de chat señala que
// la respuesta incluye un payload estructurado listo para predecir.
const ReadyMarker = "[READY_TO_PREDICT]"

// ExtractApplication busca en el texto del asistente un payload embebido con
// la solicitud completa. Gramatica: el marcador, luego el primer '{' a partir
// del marcador, hasta el ultimo '}' de todo el texto, inclusive.
//
// Devuelve (solicitud, true) solo si el payload parsea y trae los seis campos
// con valores no-cero / no-vacios; cualquier otro caso es un resultado
// negativo normal, nunca un error. Ojo: el chequeo "truthy" trata un cero
// legitimo como campo faltante; es parte del contrato con el backend de chat.
func ExtractApplication(text string) (domain.LoanApplication, bool) {
	markerIdx := strings.Index(text, ReadyMarker)
	if markerIdx == -1 {
		return domain.LoanApplication{}, false
	}

	start := strings.IndexByte(text[markerIdx:], '{')
	if start == -1 {
		return domain.LoanApplication{}, false
	}
	start += markerIdx

	end := strings.LastIndexByte(text, '}')
	if end < start {
		return domain.LoanApplication{}, false
	}

	var app domain.LoanApplication
	if err := json.Unmarshal([]byte(text[start:end+1]), &app); err != nil {
		return domain.LoanApplication{}, false
	}

	if app.LoanAmount == 0 || app.AnnualIncome == 0 || app.EmploymentStatus == "" ||
		app.CreditScore == 0 || app.LoanPurpose == "" || app.Gender == "" {
		return domain.LoanApplication{}, false
	}

	return app, true
}
