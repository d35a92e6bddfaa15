package notifier

// Notifier defines a high-level interface for sending ops alerts about back-office events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// A view load completed but one or more collections failed and degraded
	// to empty.
	SendDegradedLoadAlert(view string, failures []string, dryRun bool) error
	// A mutation's backend write failed and the optimistic patch was
	// reverted.
	SendMutationFailureAlert(action, targetID string, cause error, dryRun bool) error
	// A partner changed status (approved, suspended, reinstated).
	SendPartnerStatusAlert(partnerName, status string, dryRun bool) error
}
