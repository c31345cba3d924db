package erp

// POStatus is the lifecycle state of a purchase order.
type POStatus string

const (
	POPending   POStatus = "Pending"
	POApproved  POStatus = "Approved"
	POShipped   POStatus = "Shipped"
	PODelivered POStatus = "Delivered"
	POCancelled POStatus = "Cancelled"
)

var purchaseLifecycle = []POStatus{POPending, POApproved, POShipped, PODelivered}

// Terminal reports whether no further transition exists.
func (s POStatus) Terminal() bool {
	return s == PODelivered || s == POCancelled
}

// CanTransition reports whether moving to next is a forward lifecycle step.
// Cancelled is reachable from every non-terminal state. Seed records are not
// checked against this table.
func (s POStatus) CanTransition(next POStatus) bool {
	return canTransition(purchaseLifecycle, s, next, POCancelled)
}

// SOStatus is the lifecycle state of a sales order.
type SOStatus string

const (
	SOProcessing SOStatus = "Processing"
	SOPacked     SOStatus = "Packed"
	SOShipped    SOStatus = "Shipped"
	SODelivered  SOStatus = "Delivered"
	SOCancelled  SOStatus = "Cancelled"
)

var salesLifecycle = []SOStatus{SOProcessing, SOPacked, SOShipped, SODelivered}

// Terminal reports whether no further transition exists.
func (s SOStatus) Terminal() bool {
	return s == SODelivered || s == SOCancelled
}

// CanTransition reports whether moving to next is a forward lifecycle step.
func (s SOStatus) CanTransition(next SOStatus) bool {
	return canTransition(salesLifecycle, s, next, SOCancelled)
}

func canTransition[S comparable](steps []S, from, to, cancelled S) bool {
	if from == cancelled {
		return false
	}
	fromIdx, toIdx := -1, -1
	for i, step := range steps {
		if step == from {
			fromIdx = i
		}
		if step == to {
			toIdx = i
		}
	}
	if fromIdx < 0 || fromIdx == len(steps)-1 {
		return false
	}
	if to == cancelled {
		return true
	}
	return toIdx == fromIdx+1
}
