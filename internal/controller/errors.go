package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"homequest/internal/apperr"
	"homequest/internal/dto"
)

// RespondError maps service errors onto the HTTP contract. Only unexpected
// errors surface as opaque 500s; everything in the taxonomy gets a distinct
// shape the client can render.
func RespondError(ctx *gin.Context, err error) {
	var hintErr *apperr.HintError

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "not found"})

	case errors.Is(err, apperr.ErrAlreadyTerminal):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Message:         "question already completed",
			AlreadyComplete: true,
		})

	case errors.Is(err, apperr.ErrConfigInvalid):
		// Corrupt authoring data: a visible failure beats a silent mis-grade.
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Data integrity fault: invalid question configuration")
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Message: "this question is misconfigured and cannot be graded",
		})

	case errors.Is(err, apperr.ErrInsufficientFunds):
		ctx.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Message: "not enough coins"})

	case errors.As(err, &hintErr):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: hintErr.Reason})

	case errors.Is(err, apperr.ErrHintNotEligible):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "hint not available"})

	case errors.Is(err, apperr.ErrTxConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Message:   "please try again",
			Retriable: true,
		})

	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error"})
	}
}
