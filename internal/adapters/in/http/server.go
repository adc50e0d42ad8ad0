package http

import (
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/generated/servers"
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Delivery commands
	createDeliveryHandler   commands.CreateDeliveryCommandHandler
	dispatchDeliveryHandler commands.DispatchDeliveryCommandHandler
	advanceDeliveryHandler  commands.AdvanceDeliveryCommandHandler
	cancelDeliveryHandler   commands.CancelDeliveryCommandHandler
	declineDeliveryHandler  commands.DeclineDeliveryCommandHandler
	confirmCodeHandler      commands.ConfirmCodeCommandHandler
	regenerateCodesHandler  commands.RegenerateCodesCommandHandler
	rateDeliveryHandler     commands.RateDeliveryCommandHandler

	// Driver commands
	registerDriverHandler commands.RegisterDriverCommandHandler
	changeShiftHandler    commands.ChangeDriverShiftCommandHandler
	verifyDriverHandler   commands.VerifyDriverCommandHandler
	ingestLocationHandler commands.IngestLocationCommandHandler

	// Query handlers
	getDeliveryHandler         queries.GetDeliveryQueryHandler
	listDeliveriesHandler      queries.ListDeliveriesQueryHandler
	getDeliveryProgressHandler queries.GetDeliveryProgressQueryHandler
	getDeliveryHistoryHandler  queries.GetDeliveryHistoryQueryHandler
	getDriverHandler           queries.GetDriverQueryHandler
}

var _ servers.ServerInterface = (*Server)(nil)

// Handlers groups everything the server delegates to.
type Handlers struct {
	CreateDelivery   commands.CreateDeliveryCommandHandler
	DispatchDelivery commands.DispatchDeliveryCommandHandler
	AdvanceDelivery  commands.AdvanceDeliveryCommandHandler
	CancelDelivery   commands.CancelDeliveryCommandHandler
	DeclineDelivery  commands.DeclineDeliveryCommandHandler
	ConfirmCode      commands.ConfirmCodeCommandHandler
	RegenerateCodes  commands.RegenerateCodesCommandHandler
	RateDelivery     commands.RateDeliveryCommandHandler

	RegisterDriver    commands.RegisterDriverCommandHandler
	ChangeDriverShift commands.ChangeDriverShiftCommandHandler
	VerifyDriver      commands.VerifyDriverCommandHandler
	IngestLocation    commands.IngestLocationCommandHandler

	GetDelivery         queries.GetDeliveryQueryHandler
	ListDeliveries      queries.ListDeliveriesQueryHandler
	GetDeliveryProgress queries.GetDeliveryProgressQueryHandler
	GetDeliveryHistory  queries.GetDeliveryHistoryQueryHandler
	GetDriver           queries.GetDriverQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{
		createDeliveryHandler:      h.CreateDelivery,
		dispatchDeliveryHandler:    h.DispatchDelivery,
		advanceDeliveryHandler:     h.AdvanceDelivery,
		cancelDeliveryHandler:      h.CancelDelivery,
		declineDeliveryHandler:     h.DeclineDelivery,
		confirmCodeHandler:         h.ConfirmCode,
		regenerateCodesHandler:     h.RegenerateCodes,
		rateDeliveryHandler:        h.RateDelivery,
		registerDriverHandler:      h.RegisterDriver,
		changeShiftHandler:         h.ChangeDriverShift,
		verifyDriverHandler:        h.VerifyDriver,
		ingestLocationHandler:      h.IngestLocation,
		getDeliveryHandler:         h.GetDelivery,
		listDeliveriesHandler:      h.ListDeliveries,
		getDeliveryProgressHandler: h.GetDeliveryProgress,
		getDeliveryHistoryHandler:  h.GetDeliveryHistory,
		getDriverHandler:           h.GetDriver,
	}
}
