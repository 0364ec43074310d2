package guardian

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"homequest/internal/auth"
	"homequest/internal/controller"
	"homequest/internal/dto"
	"homequest/internal/service"
)

type AssignmentController struct {
	assignmentService service.AssignmentService
	generatorService  service.GeneratorService
}

func NewAssignmentController(
	assignmentService service.AssignmentService,
	generatorService service.GeneratorService,
) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		generatorService:  generatorService,
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

// CreateAssignment godoc
// @Summary Create an assignment with embedded problems
// @Tags Guardian - Assignments
// @Accept json
// @Produce json
// @Param assignment body dto.CreateAssignmentRequest true "Assignment with its problems"
// @Success 201 {object} dto.AssignmentDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /guardian/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	detail, err := c.assignmentService.CreateLegacy(auth.CallerID(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, detail)
}

// GenerateAssignment godoc
// @Summary Generate a package-backed assignment with AI-authored problems
// @Tags Guardian - Assignments
// @Accept json
// @Produce json
// @Param request body dto.GenerateAssignmentRequest true "Topic, difficulty and problem count"
// @Success 201 {object} dto.AssignmentDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 422 {object} dto.ErrorResponse "Generated problems failed validation"
// @Router /guardian/assignments/generate [post]
func (c *AssignmentController) GenerateAssignment(ctx *gin.Context) {
	var req dto.GenerateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	guardianID := auth.CallerID(ctx)
	log.Info().Uint("guardianID", guardianID).Str("topic", req.Topic).
		Int("count", req.ProblemCount).Msg("Received generation request")

	detail, err := c.generatorService.GenerateAssignment(guardianID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, detail)
}

// ListLearnerAssignments godoc
// @Summary List the assignments this guardian gave to one learner
// @Tags Guardian - Assignments
// @Produce json
// @Param learner_id path int true "Learner ID"
// @Success 200 {array} dto.AssignmentSummaryDTO
// @Router /guardian/learners/{learner_id}/assignments [get]
func (c *AssignmentController) ListLearnerAssignments(ctx *gin.Context) {
	learnerID, ok := pathID(ctx, "learner_id")
	if !ok {
		return
	}
	assignments, err := c.assignmentService.ListForGuardian(auth.CallerID(ctx), learnerID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

// UpdateOrder godoc
// @Summary Set the display-order hint on an assignment
// @Tags Guardian - Assignments
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param order body dto.UpdateOrderRequest true "New sort order"
// @Success 204 "No content"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /guardian/assignments/{assignment_id}/order [put]
func (c *AssignmentController) UpdateOrder(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.assignmentService.UpdateSortOrder(auth.CallerID(ctx), assignmentID, req.SortOrder); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
