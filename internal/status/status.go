// Package status defines the order fulfillment state machine. Status is a
// derived value: the upload path and the checklist path both compute the
// next status through Next rather than mutating it inline, so the two code
// paths can never disagree about a transition.
package status

// Status is the fulfillment state of an order.
type Status string

const (
	PendingPayment     Status = "pending_payment"
	PendingResources   Status = "pending_resources"
	ReadyForProcessing Status = "ready_for_processing"
	Assigned           Status = "assigned"
	InProgress         Status = "in_progress"
	Completed          Status = "completed"
)

var labels = map[Status]string{
	PendingPayment:     "Pending Payment",
	PendingResources:   "Pending Resources",
	ReadyForProcessing: "Ready for Processing",
	Assigned:           "Assigned to Staff",
	InProgress:         "In Progress",
	Completed:          "Completed",
}

// All lists every status in workflow order.
func All() []Status {
	return []Status{
		PendingPayment,
		PendingResources,
		ReadyForProcessing,
		Assigned,
		InProgress,
		Completed,
	}
}

// Paid lists the statuses an order can only reach after a verified payment.
// Revenue analytics count orders in one of these statuses.
func Paid() []Status {
	return []Status{ReadyForProcessing, Assigned, InProgress, Completed}
}

// Label returns the human-readable label for a status.
func Label(s Status) string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether s is a known status value.
func IsValid(s Status) bool {
	_, ok := labels[s]
	return ok
}

// EventKind identifies what triggered a status recomputation.
type EventKind int

const (
	// EventPaymentVerified fires when the payment gateway signature checks out.
	EventPaymentVerified EventKind = iota
	// EventResourcesComplete fires when the last order item receives its
	// resource submission.
	EventResourcesComplete
	// EventAssigned fires when an admin assigns the order to a staff member.
	EventAssigned
	// EventProgressRecomputed fires after every checklist toggle and carries
	// the new required-item completion percentage.
	EventProgressRecomputed
)

// Event is a trigger for a status transition.
type Event struct {
	Kind     EventKind
	Progress int // completion percentage, only meaningful for EventProgressRecomputed
}

func PaymentVerified() Event   { return Event{Kind: EventPaymentVerified} }
func ResourcesComplete() Event { return Event{Kind: EventResourcesComplete} }
func AssignedToStaff() Event   { return Event{Kind: EventAssigned} }
func ProgressRecomputed(pct int) Event {
	return Event{Kind: EventProgressRecomputed, Progress: pct}
}

// Next returns the status an order moves to when ev occurs in state current.
// It returns current unchanged when the event does not apply, so callers can
// always compare the result against the input to detect a transition.
// Completed is terminal for automatic recomputation: no event moves an order
// out of it.
func Next(current Status, ev Event) Status {
	if current == Completed {
		return current
	}

	switch ev.Kind {
	case EventPaymentVerified:
		if current == PendingPayment {
			return PendingResources
		}
	case EventResourcesComplete:
		if current == PendingResources || current == ReadyForProcessing {
			return ReadyForProcessing
		}
	case EventAssigned:
		if current == ReadyForProcessing {
			return Assigned
		}
	case EventProgressRecomputed:
		switch {
		case ev.Progress == 100 && (current == Assigned || current == InProgress):
			return Completed
		case ev.Progress > 0 && current == Assigned:
			return InProgress
		}
	}
	return current
}

// MilestonesCrossed returns the progress milestones (25/50/75/100) crossed
// when the completion percentage moves from prev to next, in either
// direction. Each crossed milestone warrants a progress notification.
func MilestonesCrossed(prev, next int) []int {
	var crossed []int
	for _, m := range []int{25, 50, 75, 100} {
		if (prev < m && next >= m) || (prev >= m && next < m) {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
