package checkout

import "frontdesk/models"

// GateInput is the state the confirmation gate decides over. It is derived
// on demand, never stored.
type GateInput struct {
	Method             models.PaymentMethod
	Editing            bool
	Displayed          *models.PaymentRequest
	ConfirmedReference string
}

// GateDecision is the outcome of evaluating the gate, with a human-readable
// reason when closed.
type GateDecision struct {
	Open   bool
	Reason string
}

// EvaluateGate decides whether checkout may proceed. Cash needs no payment
// confirmation. Transfer requires a live payment request whose transaction
// reference was independently confirmed; a confirmation for a superseded
// request never satisfies the gate.
func EvaluateGate(in GateInput) GateDecision {
	switch in.Method {
	case models.MethodCash:
		return GateDecision{Open: true}

	case models.MethodTransfer:
		if in.Editing {
			return GateDecision{Reason: "finish editing the invoice before checkout"}
		}

		if in.Displayed == nil {
			return GateDecision{Reason: "no payment request has been issued"}
		}

		if in.ConfirmedReference == "" {
			return GateDecision{Reason: "payment has not been confirmed"}
		}

		if in.ConfirmedReference != in.Displayed.TransactionCode {
			return GateDecision{Reason: "confirmation belongs to a superseded payment request"}
		}

		return GateDecision{Open: true}

	default:
		return GateDecision{Reason: "unsupported payment method"}
	}
}
