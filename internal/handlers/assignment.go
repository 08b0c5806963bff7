package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/constants"
	"github.com/Angelouange12/construction-site-sub001/internal/dto"
	apierrors "github.com/Angelouange12/construction-site-sub001/internal/errors"
	"github.com/Angelouange12/construction-site-sub001/internal/middleware"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/repository"
	"github.com/Angelouange12/construction-site-sub001/internal/services"
	"github.com/Angelouange12/construction-site-sub001/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AssignmentHandler exposes the scheduling operations over HTTP. All
// scheduling rules live in the assignment service; the handler only binds,
// validates shape and maps service errors to response codes.
type AssignmentHandler struct {
	assignments *services.AssignmentService
	plannerAI   *services.PlannerAIService
}

// NewAssignmentHandler creates a new AssignmentHandler. plannerAI may be nil
// when no OpenAI key is configured.
func NewAssignmentHandler(assignments *services.AssignmentService, plannerAI *services.PlannerAIService) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		plannerAI:   plannerAI,
	}
}

// CreateAssignment commits a new assignment after the conflict check
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actor, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateAssignmentRequest struct {
		AssigneeType string           `json:"assignee_type" binding:"required"`
		AssigneeID   uint64           `json:"assignee_id" binding:"required"`
		EntityType   string           `json:"entity_type" binding:"required"`
		EntityID     uint64           `json:"entity_id" binding:"required"`
		StartDate    string           `json:"start_date" binding:"required"`
		EndDate      *string          `json:"end_date"`
		HoursPerDay  *decimal.Decimal `json:"hours_per_day"`
		Quantity     *decimal.Decimal `json:"quantity"`
		Notes        string           `json:"notes"`
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	assignment, err := h.assignments.Create(services.CreateAssignmentInput{
		AssigneeType: models.AssigneeType(req.AssigneeType),
		AssigneeID:   req.AssigneeID,
		EntityType:   models.EntityType(req.EntityType),
		EntityID:     req.EntityID,
		StartDate:    start,
		EndDate:      end,
		HoursPerDay:  req.HoursPerDay,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}, actor)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssignmentDTO(*assignment))
}

// GetAssignment returns one assignment with its predecessor
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	assignment, err := h.assignments.Get(id)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// ListAssignments returns assignments matching the query filters
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.AssignmentFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if v := c.Query("assignee_type"); v != "" {
		at := models.AssigneeType(v)
		if !at.Valid() {
			apierrors.BadRequest(c, "Invalid assignee_type")
			return
		}
		filter.AssigneeType = &at
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		filter.AssigneeID = &id
	}
	if v := c.Query("entity_type"); v != "" {
		et := models.EntityType(v)
		if !et.Valid() {
			apierrors.BadRequest(c, "Invalid entity_type")
			return
		}
		filter.EntityType = &et
	}
	if v := c.Query("entity_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid entity_id")
			return
		}
		filter.EntityID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.AssignmentStatus(v)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = &status
	}

	assignments, total, err := h.assignments.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to list assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": dto.ToAssignmentDTOs(assignments),
		"pagination": gin.H{
			"page":  params.Page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

// UpdateAssignment applies non-status field edits to an active assignment
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	actor, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateAssignmentRequest struct {
		StartDate    *string          `json:"start_date"`
		EndDate      *string          `json:"end_date"`
		ClearEndDate bool             `json:"clear_end_date"`
		HoursPerDay  *decimal.Decimal `json:"hours_per_day"`
		Quantity     *decimal.Decimal `json:"quantity"`
		Notes        *string          `json:"notes"`
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateAssignmentInput{
		ClearEndDate: req.ClearEndDate,
		HoursPerDay:  req.HoursPerDay,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}

	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			apierrors.BadRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			apierrors.BadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		input.EndDate = &end
	}

	assignment, err := h.assignments.Update(id, input, actor)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// CompleteAssignment marks an assignment as completed
func (h *AssignmentHandler) CompleteAssignment(c *gin.Context) {
	actor, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	assignment, err := h.assignments.Complete(id, actor)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// CancelAssignment marks an assignment as cancelled; a reason is required
func (h *AssignmentHandler) CancelAssignment(c *gin.Context) {
	actor, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type CancelRequest struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A cancellation reason is required")
		return
	}

	assignment, err := h.assignments.Cancel(id, actor, req.Reason)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// ReassignAssignment retires an assignment and commits a replacement for a
// new assignee
func (h *AssignmentHandler) ReassignAssignment(c *gin.Context) {
	actor, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type ReassignRequest struct {
		NewAssigneeID uint64 `json:"new_assignee_id" binding:"required"`
		Reason        string `json:"reason"`
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	replacement, err := h.assignments.Reassign(id, req.NewAssigneeID, actor, req.Reason)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*replacement))
}

// HandleAbsence reassigns an absent worker's assignments for one day
func (h *AssignmentHandler) HandleAbsence(c *gin.Context) {
	actor, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AbsenceRequest struct {
		WorkerID      uint64   `json:"worker_id" binding:"required"`
		Date          string   `json:"date" binding:"required"`
		CandidatePool []uint64 `json:"candidate_pool"`
	}

	var req AbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	day, err := parseDate(req.Date)
	if err != nil {
		apierrors.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	outcome, err := h.assignments.HandleAbsence(req.WorkerID, day, req.CandidatePool, actor)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAbsenceOutcomeDTO(*outcome))
}

// GetHistory returns the ordered lifecycle log of one assignment
func (h *AssignmentHandler) GetHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entries, err := h.assignments.History(id)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": dto.ToAssignmentHistoryDTOs(entries)})
}

// GetTimeline returns one assignee's assignments across a date window
func (h *AssignmentHandler) GetTimeline(c *gin.Context) {
	assigneeType := models.AssigneeType(c.DefaultQuery("assignee_type", string(models.AssigneeWorker)))

	assigneeID, err := strconv.ParseUint(c.Query("assignee_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignee_id")
		return
	}
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		apierrors.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		apierrors.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	assignments, err := h.assignments.Timeline(assigneeType, assigneeID, start, end)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeline": dto.ToAssignmentDTOs(assignments)})
}

// SuggestAssignments turns a free-text brief into proposed assignment
// requests, each annotated with the conflict detector's verdict. Nothing is
// committed.
func (h *AssignmentHandler) SuggestAssignments(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if h.plannerAI == nil {
		apierrors.BadRequest(c, "AI planner is not configured")
		return
	}

	type SuggestRequest struct {
		Brief string `json:"brief" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.plannerAI.SuggestAssignmentsFromText(c.Request.Context(), req.Brief)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate suggestions")
		return
	}
	if len(suggestions) > constants.MaxAISuggestions {
		suggestions = suggestions[:constants.MaxAISuggestions]
	}

	type AnnotatedSuggestion struct {
		services.SuggestedAssignment
		Conflicts []services.ConflictDescriptor `json:"conflicts"`
	}

	annotated := make([]AnnotatedSuggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		entry := AnnotatedSuggestion{SuggestedAssignment: suggestion, Conflicts: []services.ConflictDescriptor{}}

		start, err := parseDate(suggestion.StartDate)
		if err == nil {
			end, endErr := parseOptionalDate(suggestion.EndDate)
			if endErr == nil {
				conflicts, checkErr := h.assignments.CheckConflicts(services.ConflictCandidate{
					AssigneeType: models.AssigneeType(suggestion.AssigneeType),
					AssigneeID:   suggestion.AssigneeID,
					StartDate:    start,
					EndDate:      end,
				})
				if checkErr == nil && conflicts != nil {
					entry.Conflicts = conflicts
				}
			}
		}

		annotated = append(annotated, entry)
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": annotated})
}

// respondAssignmentError maps service errors to API responses
func respondAssignmentError(c *gin.Context, err error) {
	var conflictErr *services.ConflictError
	var transitionErr *services.InvalidTransitionError

	switch {
	case errors.As(err, &conflictErr):
		apierrors.ScheduleConflict(c, "", conflictErr.Conflicts)
	case errors.As(err, &transitionErr):
		apierrors.InvalidTransition(c, transitionErr.Error())
	case errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrEntityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidAssigneeType),
		errors.Is(err, services.ErrInvalidEntityType),
		errors.Is(err, services.ErrStartDateRequired),
		errors.Is(err, services.ErrEndBeforeStart),
		errors.Is(err, services.ErrCancelReasonRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(constants.DateLayout, value)
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment id")
		return 0, false
	}
	return id, true
}
