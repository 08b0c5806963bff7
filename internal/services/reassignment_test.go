package services

import (
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *AssignmentServiceTestSuite) TestReassign_RetiresOldAndActivatesNew() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	site := suite.createSite("S1")

	hours := decimal.NewFromInt(6)
	input := workerInput(w1.ID, site.ID, "2024-03-01", strPtr("2024-03-10"))
	input.HoursPerDay = &hours
	original, err := suite.svc.Create(input, 1)
	suite.Require().NoError(err)

	replacement, err := suite.svc.Reassign(original.ID, w2.ID, 2, "crew rotation")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.AssignmentActive, replacement.Status)
	assert.Equal(suite.T(), w2.ID, replacement.AssigneeID)
	assert.Equal(suite.T(), site.ID, replacement.EntityID)
	assert.Equal(suite.T(), "2024-03-01", replacement.StartDate.Format("2006-01-02"))
	suite.Require().NotNil(replacement.EndDate)
	assert.Equal(suite.T(), "2024-03-10", replacement.EndDate.Format("2006-01-02"))
	assert.True(suite.T(), replacement.HoursPerDay.Equal(hours))
	suite.Require().NotNil(replacement.ReassignedFrom)
	assert.Equal(suite.T(), original.ID, *replacement.ReassignedFrom)

	var retired models.Assignment
	suite.Require().NoError(suite.db.First(&retired, original.ID).Error)
	assert.Equal(suite.T(), models.AssignmentReassigned, retired.Status)

	// history on both sides of the hand-off
	oldEntries, err := suite.svc.History(original.ID)
	suite.Require().NoError(err)
	suite.Require().Len(oldEntries, 2)
	assert.Equal(suite.T(), models.ActionReassigned, oldEntries[1].Action)
	assert.Equal(suite.T(), float64(w2.ID), oldEntries[1].Metadata["reassigned_to"])

	newEntries, err := suite.svc.History(replacement.ID)
	suite.Require().NoError(err)
	suite.Require().Len(newEntries, 1)
	assert.Equal(suite.T(), models.ActionCreated, newEntries[0].Action)

	suite.Require().Len(suite.notifier.reassigned, 1)
	assert.Equal(suite.T(), [2]uint64{original.ID, replacement.ID}, suite.notifier.reassigned[0])
}

func (suite *AssignmentServiceTestSuite) TestReassign_ConflictRollsBackEverything() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	s1 := suite.createSite("S1")
	s2 := suite.createSite("S2")

	original := suite.mustCreate(workerInput(w1.ID, s1.ID, "2024-03-01", strPtr("2024-03-10")))
	// W2 is busy inside the window
	suite.mustCreate(workerInput(w2.ID, s2.ID, "2024-03-08", strPtr("2024-03-12")))

	_, err := suite.svc.Reassign(original.ID, w2.ID, 1, "attempt")

	var conflictErr *ConflictError
	suite.Require().ErrorAs(err, &conflictErr)

	// the old assignment is still active and no replacement row exists
	var stored models.Assignment
	suite.Require().NoError(suite.db.First(&stored, original.ID).Error)
	assert.Equal(suite.T(), models.AssignmentActive, stored.Status)

	var count int64
	suite.db.Model(&models.Assignment{}).Where("reassigned_from = ?", original.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)

	// no reassigned history entry was kept either
	entries, err := suite.svc.History(original.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), entries, 1)

	assert.Empty(suite.T(), suite.notifier.reassigned)
}

// An absent worker's assignment moves to the first pool candidate free on the
// absent day; busy candidates ahead of it in the pool are skipped.
func (suite *AssignmentServiceTestSuite) TestHandleAbsence_FirstFreeCandidateWins() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	w3 := suite.createWorker("W3")
	s1 := suite.createSite("S1")
	s2 := suite.createSite("S2")

	original := suite.mustCreate(workerInput(w1.ID, s1.ID, "2024-03-01", nil))
	suite.mustCreate(workerInput(w2.ID, s2.ID, "2024-03-01", nil))

	outcome, err := suite.svc.HandleAbsence(w1.ID, date("2024-03-04"), []uint64{w2.ID, w3.ID}, 1)
	suite.Require().NoError(err)

	suite.Require().Len(outcome.Reassigned, 1)
	assert.Empty(suite.T(), outcome.Unresolved)
	assert.Equal(suite.T(), original.ID, outcome.Reassigned[0].OriginalID)

	replacement := outcome.Reassigned[0].Replacement
	assert.Equal(suite.T(), w3.ID, replacement.AssigneeID)
	assert.Equal(suite.T(), s1.ID, replacement.EntityID)
	assert.Nil(suite.T(), replacement.EndDate)
	suite.Require().NotNil(replacement.ReassignedFrom)
	assert.Equal(suite.T(), original.ID, *replacement.ReassignedFrom)

	var retired models.Assignment
	suite.Require().NoError(suite.db.First(&retired, original.ID).Error)
	assert.Equal(suite.T(), models.AssignmentReassigned, retired.Status)
}

func (suite *AssignmentServiceTestSuite) TestHandleAbsence_PoolOrderIsPriority() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	w3 := suite.createWorker("W3")
	site := suite.createSite("S1")

	suite.mustCreate(workerInput(w1.ID, site.ID, "2024-03-01", strPtr("2024-03-10")))

	// both candidates are free; the first listed wins
	outcome, err := suite.svc.HandleAbsence(w1.ID, date("2024-03-04"), []uint64{w3.ID, w2.ID}, 1)
	suite.Require().NoError(err)

	suite.Require().Len(outcome.Reassigned, 1)
	assert.Equal(suite.T(), w3.ID, outcome.Reassigned[0].Replacement.AssigneeID)
}

func (suite *AssignmentServiceTestSuite) TestHandleAbsence_NoCandidateLeavesAssignmentActive() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	s1 := suite.createSite("S1")
	s2 := suite.createSite("S2")

	original := suite.mustCreate(workerInput(w1.ID, s1.ID, "2024-03-01", strPtr("2024-03-10")))
	suite.mustCreate(workerInput(w2.ID, s2.ID, "2024-03-01", strPtr("2024-03-10")))

	outcome, err := suite.svc.HandleAbsence(w1.ID, date("2024-03-04"), []uint64{w2.ID}, 1)
	suite.Require().NoError(err)

	assert.Empty(suite.T(), outcome.Reassigned)
	suite.Require().Len(outcome.Unresolved, 1)
	assert.Equal(suite.T(), original.ID, outcome.Unresolved[0].AssignmentID)
	assert.NotEmpty(suite.T(), outcome.Unresolved[0].Reason)

	var stored models.Assignment
	suite.Require().NoError(suite.db.First(&stored, original.ID).Error)
	assert.Equal(suite.T(), models.AssignmentActive, stored.Status)

	assert.Equal(suite.T(), []uint64{original.ID}, suite.notifier.unresolved)
}

func (suite *AssignmentServiceTestSuite) TestHandleAbsence_SkipsAbsentWorkerInPool() {
	w1 := suite.createWorker("W1")
	site := suite.createSite("S1")

	original := suite.mustCreate(workerInput(w1.ID, site.ID, "2024-03-01", strPtr("2024-03-10")))

	outcome, err := suite.svc.HandleAbsence(w1.ID, date("2024-03-04"), []uint64{w1.ID}, 1)
	suite.Require().NoError(err)

	assert.Empty(suite.T(), outcome.Reassigned)
	suite.Require().Len(outcome.Unresolved, 1)
	assert.Equal(suite.T(), original.ID, outcome.Unresolved[0].AssignmentID)
}

func (suite *AssignmentServiceTestSuite) TestHandleAbsence_DayOutsideWindowsIsNoop() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	site := suite.createSite("S1")

	suite.mustCreate(workerInput(w1.ID, site.ID, "2024-03-01", strPtr("2024-03-10")))

	outcome, err := suite.svc.HandleAbsence(w1.ID, date("2024-04-01"), []uint64{w2.ID}, 1)
	suite.Require().NoError(err)

	assert.Empty(suite.T(), outcome.Reassigned)
	assert.Empty(suite.T(), outcome.Unresolved)
}

func (suite *AssignmentServiceTestSuite) TestHandleAbsence_UnknownWorker() {
	_, err := suite.svc.HandleAbsence(999, date("2024-03-04"), nil, 1)
	assert.ErrorIs(suite.T(), err, ErrAssigneeNotFound)
}

// After a hand-off the timeline keeps showing the retired record for the old
// worker and the active one for the new worker.
func (suite *AssignmentServiceTestSuite) TestTimeline_ShowsRetiredAndActiveRecords() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	site := suite.createSite("S1")

	original := suite.mustCreate(workerInput(w1.ID, site.ID, "2024-03-01", strPtr("2024-03-10")))
	replacement, err := suite.svc.Reassign(original.ID, w2.ID, 1, "absence")
	suite.Require().NoError(err)

	oldView, err := suite.svc.Timeline(models.AssigneeWorker, w1.ID, date("2024-03-01"), date("2024-03-31"))
	suite.Require().NoError(err)
	suite.Require().Len(oldView, 1)
	assert.Equal(suite.T(), original.ID, oldView[0].ID)
	assert.Equal(suite.T(), models.AssignmentReassigned, oldView[0].Status)

	newView, err := suite.svc.Timeline(models.AssigneeWorker, w2.ID, date("2024-03-01"), date("2024-03-31"))
	suite.Require().NoError(err)
	suite.Require().Len(newView, 1)
	assert.Equal(suite.T(), replacement.ID, newView[0].ID)
	assert.Equal(suite.T(), models.AssignmentActive, newView[0].Status)
}

func (suite *AssignmentServiceTestSuite) TestTimeline_OrderedByStartAcrossStatuses() {
	w1 := suite.createWorker("W1")
	s1 := suite.createSite("S1")
	s2 := suite.createSite("S2")
	s3 := suite.createSite("S3")

	second := suite.mustCreate(workerInput(w1.ID, s2.ID, "2024-03-11", strPtr("2024-03-15")))
	first := suite.mustCreate(workerInput(w1.ID, s1.ID, "2024-03-01", strPtr("2024-03-10")))
	_, err := suite.svc.Complete(first.ID, 1)
	suite.Require().NoError(err)
	third := suite.mustCreate(workerInput(w1.ID, s3.ID, "2024-03-20", nil))

	view, err := suite.svc.Timeline(models.AssigneeWorker, w1.ID, date("2024-03-01"), date("2024-03-31"))
	suite.Require().NoError(err)
	suite.Require().Len(view, 3)
	assert.Equal(suite.T(), first.ID, view[0].ID)
	assert.Equal(suite.T(), second.ID, view[1].ID)
	assert.Equal(suite.T(), third.ID, view[2].ID)
}

func (suite *AssignmentServiceTestSuite) TestTimeline_WindowFiltersAndOpenEndedExtends() {
	w1 := suite.createWorker("W1")
	s1 := suite.createSite("S1")
	s2 := suite.createSite("S2")

	past := suite.mustCreate(workerInput(w1.ID, s1.ID, "2024-01-01", strPtr("2024-01-31")))
	_, err := suite.svc.Complete(past.ID, 1)
	suite.Require().NoError(err)
	open := suite.mustCreate(workerInput(w1.ID, s2.ID, "2024-02-15", nil))

	view, err := suite.svc.Timeline(models.AssigneeWorker, w1.ID, date("2024-06-01"), date("2024-06-30"))
	suite.Require().NoError(err)
	suite.Require().Len(view, 1)
	assert.Equal(suite.T(), open.ID, view[0].ID)

	_, err = suite.svc.Timeline(models.AssigneeWorker, w1.ID, date("2024-06-30"), date("2024-06-01"))
	assert.ErrorIs(suite.T(), err, ErrEndBeforeStart)
}

// The lifecycle log always starts with creation and nothing follows a
// terminal state.
func (suite *AssignmentServiceTestSuite) TestHistory_PathStaysValid() {
	w1 := suite.createWorker("W1")
	w2 := suite.createWorker("W2")
	site := suite.createSite("S1")

	assignment := suite.mustCreate(workerInput(w1.ID, site.ID, "2024-03-01", strPtr("2024-03-10")))
	hours := decimal.NewFromInt(4)
	_, err := suite.svc.Update(assignment.ID, UpdateAssignmentInput{HoursPerDay: &hours}, 1)
	suite.Require().NoError(err)
	_, err = suite.svc.Reassign(assignment.ID, w2.ID, 1, "hand-off")
	suite.Require().NoError(err)

	entries, err := suite.svc.History(assignment.ID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	assert.Equal(suite.T(), models.ActionCreated, entries[0].Action)
	for i, entry := range entries {
		suite.Require().NotNil(entry.NewStatus)
		if i < len(entries)-1 {
			assert.False(suite.T(), entry.NewStatus.Terminal(), "entry %d reached a terminal state early", i)
		}
	}
	assert.True(suite.T(), entries[len(entries)-1].NewStatus.Terminal())
}
