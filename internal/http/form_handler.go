package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-advisor/internal/advisor"
	"loan-advisor/internal/domain"
	"loan-advisor/internal/service"
)

// FormHandler expone el camino por formulario: validar y predecir directo,
// sin pasar por el chat ni el extractor.
type FormHandler struct {
	logger    *zap.Logger
	predictor *service.PredictService
}

func NewFormHandler(logger *zap.Logger, predictor *service.PredictService) *FormHandler {
	return &FormHandler{
		logger:    logger,
		predictor: predictor,
	}
}

// SubmitApplication maneja POST /application. Con errores de validacion
// devuelve 422 con el set completo por campo y no emite trafico de red.
func (h *FormHandler) SubmitApplication(c *gin.Context) {
	var app domain.LoanApplication
	if err := c.ShouldBindJSON(&app); err != nil {
		h.logger.Warn("invalid application request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome, err := h.predictor.Submit(c.Request.Context(), app)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": vErr.Fields})
			return
		}
		var tErr *advisor.TransportError
		if errors.As(err, &tErr) {
			h.logger.Error("prediction call failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": tErr.Message})
			return
		}
		h.logger.Error("submit application failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": outcome})
}
