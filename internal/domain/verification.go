package domain

import "time"

type VerificationOutcome string

const (
	VerificationValid          VerificationOutcome = "valid"
	VerificationTicketNotFound VerificationOutcome = "ticket_not_found"
	VerificationEventNotFound  VerificationOutcome = "event_not_found"
	VerificationAlreadyUsed    VerificationOutcome = "already_used"
	VerificationNotActive      VerificationOutcome = "not_active"
	VerificationTooEarly       VerificationOutcome = "too_early"
	VerificationTooLate        VerificationOutcome = "too_late"
)

// VerificationResult classifies a ticket's admission eligibility at a gate.
// Ticket and Event are set whenever the lookup got that far.
type VerificationResult struct {
	Outcome VerificationOutcome
	Ticket  *Ticket
	Event   *Event
}

// Admissible reports whether Use may be invoked next.
func (r VerificationResult) Admissible() bool {
	return r.Outcome == VerificationValid
}

// ClassifyAdmission evaluates a loaded ticket against its event in the strict
// priority order: state checks before timing checks.
func ClassifyAdmission(ticket Ticket, event Event, now time.Time) VerificationOutcome {
	if ticket.State == TicketStateUsed {
		return VerificationAlreadyUsed
	}
	if ticket.State != TicketStateActive {
		return VerificationNotActive
	}
	if now.Before(event.StartsAt) {
		return VerificationTooEarly
	}
	if now.After(event.EndsAt) {
		return VerificationTooLate
	}
	return VerificationValid
}
