package learner

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"homequest/internal/auth"
	"homequest/internal/controller"
	"homequest/internal/dto"
	"homequest/internal/service"
	"homequest/internal/storage"
)

type SubmissionController struct {
	submissionService service.SubmissionService
	hintService       service.HintService
	workStore         *storage.WorkStore
}

func NewSubmissionController(
	submissionService service.SubmissionService,
	hintService service.HintService,
	workStore *storage.WorkStore,
) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
		hintService:       hintService,
		workStore:         workStore,
	}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(value), true
}

// SubmitAnswer godoc
// @Summary Submit an answer for one problem
// @Description Grades the answer, applies rewards and retries, and reports assignment progress. Accepts multipart form with an "answer" field and optional "work" image files.
// @Tags Learner - Submissions
// @Accept mpfd
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param problem_id path int true "Problem ID"
// @Param answer formData string true "Submitted answer"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Assignment or problem not found"
// @Failure 409 {object} dto.ErrorResponse "Question already completed, or a retriable conflict"
// @Failure 422 {object} dto.ErrorResponse "Question misconfigured"
// @Router /assignments/{assignment_id}/problems/{problem_id}/answer [post]
func (c *SubmissionController) SubmitAnswer(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	problemID, ok := pathID(ctx, "problem_id")
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	learnerID := auth.CallerID(ctx)

	// Scratch-work images are stored first; only their references enter the
	// grading transaction.
	var workRefs []string
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		if files := form.File["work"]; len(files) > 0 {
			refs, err := c.workStore.SaveWorkImages(assignmentID, problemID, files)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to store work images", Details: []string{err.Error()}})
				return
			}
			workRefs = refs
		}
	}

	log.Info().Uint("learnerID", learnerID).Uint("assignmentID", assignmentID).
		Uint("problemID", problemID).Int("workImages", len(workRefs)).
		Msg("Received answer submission")

	resp, err := c.submissionService.SubmitAnswer(learnerID, assignmentID, problemID, req.Answer, workRefs)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// PurchaseHint godoc
// @Summary Buy the hint for one problem
// @Description Debits the learner's wallet and reveals the hint. Eligibility requires a prior failed attempt.
// @Tags Learner - Submissions
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param problem_id path int true "Problem ID"
// @Success 200 {object} dto.HintResponse
// @Failure 402 {object} dto.ErrorResponse "Not enough coins"
// @Failure 403 {object} dto.ErrorResponse "Not eligible, with the specific reason"
// @Failure 404 {object} dto.ErrorResponse "Assignment or problem not found"
// @Router /assignments/{assignment_id}/problems/{problem_id}/hint [post]
func (c *SubmissionController) PurchaseHint(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	problemID, ok := pathID(ctx, "problem_id")
	if !ok {
		return
	}

	resp, err := c.hintService.Purchase(auth.CallerID(ctx), assignmentID, problemID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
