package notify

// Event name constants.
const (
	// Invoice events
	EventInvoiceCreated = "invoice.created"
	EventInvoiceUpdated = "invoice.updated"
	EventInvoiceSent    = "invoice.sent"
	EventInvoicePaid    = "invoice.paid"
	EventInvoiceDeleted = "invoice.deleted"

	// Client events
	EventClientCreated     = "client.created"
	EventClientUpdated     = "client.updated"
	EventClientDeactivated = "client.deactivated"
)

// Resource constants for outbound events.
const (
	ResourceInvoice = "invoice"
	ResourceClient  = "client"
)

// Severity levels for outbound events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)
