package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/kerov/travel-force/internal/models"
)

type TripWriteWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment

	mu          sync.Mutex
	updateCalls []models.TripWriteInput
	voidCalls   []models.VoidTicketsInput
	updateErr   error
	prevFlight  string
	prevContact string
}

func TestTripWriteWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(TripWriteWorkflowTestSuite))
}

func (s *TripWriteWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.updateCalls = nil
	s.voidCalls = nil
	s.updateErr = nil
	s.prevFlight = ""
	s.prevContact = ""

	s.env.RegisterActivityWithOptions(
		func(_ context.Context, input models.TripWriteInput) (*models.TripWriteResult, error) {
			s.mu.Lock()
			s.updateCalls = append(s.updateCalls, input)
			s.mu.Unlock()
			if s.updateErr != nil {
				return nil, s.updateErr
			}
			return &models.TripWriteResult{
				PreviousFlightID: s.prevFlight,
				ContactID:        s.prevContact,
			}, nil
		},
		activity.RegisterOptions{Name: "UpdateTripRecord"},
	)
	s.env.RegisterActivityWithOptions(
		func(_ context.Context, input models.VoidTicketsInput) error {
			s.mu.Lock()
			s.voidCalls = append(s.voidCalls, input)
			s.mu.Unlock()
			return nil
		},
		activity.RegisterOptions{Name: "VoidTickets"},
	)
}

func (s *TripWriteWorkflowTestSuite) TestAssignWrite_NoVoiding() {
	s.prevFlight = "5f6b5f68-0000-0000-0000-000000000001"
	s.prevContact = "5f6b5f68-0000-0000-0000-000000000002"

	input := models.TripWriteInput{
		TripID: "trip-1",
		Fields: map[string]interface{}{models.TripFieldAssignedFlight: "flight-2"},
	}
	s.env.ExecuteWorkflow(TripWriteWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Len(s.updateCalls, 1)
	s.Empty(s.voidCalls, "assigning must not void tickets")
}

func (s *TripWriteWorkflowTestSuite) TestClearWrite_VoidsPreviousTickets() {
	s.prevFlight = "5f6b5f68-0000-0000-0000-000000000001"
	s.prevContact = "5f6b5f68-0000-0000-0000-000000000002"

	input := models.TripWriteInput{
		TripID: "trip-1",
		Fields: map[string]interface{}{models.TripFieldAssignedFlight: nil},
	}
	s.env.ExecuteWorkflow(TripWriteWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Len(s.updateCalls, 1)
	s.Require().Len(s.voidCalls, 1)
	s.Equal(s.prevFlight, s.voidCalls[0].FlightID)
	s.Equal(s.prevContact, s.voidCalls[0].ContactID)
}

func (s *TripWriteWorkflowTestSuite) TestClearWrite_NothingWasAssigned() {
	input := models.TripWriteInput{
		TripID: "trip-1",
		Fields: map[string]interface{}{models.TripFieldAssignedFlight: nil},
	}
	s.env.ExecuteWorkflow(TripWriteWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Empty(s.voidCalls)
}

func (s *TripWriteWorkflowTestSuite) TestUpdateFailure_AbortsSequence() {
	s.updateErr = errors.New("record locked")

	input := models.TripWriteInput{
		TripID: "trip-1",
		Fields: map[string]interface{}{models.TripFieldAssignedFlight: nil},
	}
	s.env.ExecuteWorkflow(TripWriteWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Empty(s.voidCalls, "voiding never runs after a failed write")
}
