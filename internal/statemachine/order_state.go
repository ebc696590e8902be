package statemachine

import (
	"strings"

	"kedai/internal/models"
)

// Transition is a single legal status change.
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the authoritative lifecycle graph: a linear happy path
// with cancellation allowed from every non-terminal state.
var validTransitions = []Transition{
	{From: models.StatusConfirmed, To: models.StatusPreparing},
	{From: models.StatusConfirmed, To: models.StatusCancelled},
	{From: models.StatusPreparing, To: models.StatusOnTheWay},
	{From: models.StatusPreparing, To: models.StatusCancelled},
	{From: models.StatusOnTheWay, To: models.StatusDelivered},
	{From: models.StatusOnTheWay, To: models.StatusCancelled},
}

// Steps is the canonical progress sequence shown to a tracking client.
var Steps = []models.OrderStatus{
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusOnTheWay,
	models.StatusDelivered,
}

var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// InitialStatus is the status every new order starts in.
func InitialStatus() models.OrderStatus {
	return models.StatusConfirmed
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to models.OrderStatus) bool {
	return transitionMap[Transition{From: from, To: to}]
}

// ValidTransitionsFrom returns all legal next states from a given state.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	nexts := []models.OrderStatus{}
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// DescribeValidFrom renders the legal next states for error messages.
func DescribeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// StepIndex returns the position of status in Steps. Cancelled orders are
// halted and have no position.
func StepIndex(status models.OrderStatus) (int, bool) {
	for i, s := range Steps {
		if s == status {
			return i, true
		}
	}
	return -1, false
}

// Progress builds the tracking progress for status.
func Progress(status models.OrderStatus) models.TrackingProgress {
	step, ok := StepIndex(status)
	return models.TrackingProgress{
		Step:         step,
		TotalSteps:   len(Steps),
		Halted:       !ok,
		Terminal:     status.Terminal(),
		NextStatuses: ValidTransitionsFrom(status),
	}
}
