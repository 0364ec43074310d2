package learner

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homequest/internal/auth"
	"homequest/internal/controller"
	"homequest/internal/service"
)

type AssignmentController struct {
	assignmentService service.AssignmentService
	walletService     service.WalletService
}

func NewAssignmentController(
	assignmentService service.AssignmentService,
	walletService service.WalletService,
) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		walletService:     walletService,
	}
}

// ListAssignments godoc
// @Summary List the caller's assignments
// @Tags Learner - Assignments
// @Produce json
// @Success 200 {array} dto.AssignmentSummaryDTO
// @Router /assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	assignments, err := c.assignmentService.ListForLearner(auth.CallerID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

// GetAssignment godoc
// @Summary Get one assignment with problems and attempt state
// @Tags Learner - Assignments
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {object} dto.AssignmentDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{assignment_id} [get]
func (c *AssignmentController) GetAssignment(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignment_id")
	if !ok {
		return
	}
	detail, err := c.assignmentService.GetDetailForLearner(auth.CallerID(ctx), assignmentID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetWallet godoc
// @Summary Get the caller's coin balance, lifetime earnings and streak
// @Tags Learner - Wallet
// @Produce json
// @Success 200 {object} dto.WalletDTO
// @Router /wallet [get]
func (c *AssignmentController) GetWallet(ctx *gin.Context) {
	wallet, err := c.walletService.GetWallet(auth.CallerID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, wallet)
}
