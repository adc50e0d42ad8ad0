package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// Collaborators are the optional outbound adapters. Nil fields fall back to
// in-process behaviour: no routing provider, no ping throttling, events discarded.
type Collaborators struct {
	Publisher ports.EventPublisher
	Router    services.Router
	Limiter   ports.PingLimiter
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	assigner   services.DriverAssigner
	estimator  services.ETAEstimator
	limiter    ports.PingLimiter
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, deps Collaborators, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, deps.Publisher),
		assigner:   services.NewDriverAssigner(cfg.Assignment),
		estimator:  services.NewETAEstimator(deps.Router, cfg.AverageSpeedKmh, cfg.RoutingTimeout),
		limiter:    deps.Limiter,
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoW() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.uow(), c.cfg.Fee)
}

func (c *CompositionRoot) CreateDispatchDeliveryCommandHandler() commands.DispatchDeliveryCommandHandler {
	return commands.NewDispatchDeliveryCommandHandler(c.uow(), c.assigner, c.estimator)
}

func (c *CompositionRoot) CreateDispatchPendingCommandHandler() commands.DispatchPendingCommandHandler {
	return commands.NewDispatchPendingCommandHandler(c.uow(), c.CreateDispatchDeliveryCommandHandler())
}

func (c *CompositionRoot) CreateAdvanceDeliveryCommandHandler() commands.AdvanceDeliveryCommandHandler {
	return commands.NewAdvanceDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateDeclineDeliveryCommandHandler() commands.DeclineDeliveryCommandHandler {
	return commands.NewDeclineDeliveryCommandHandler(c.uow(), c.assigner, c.estimator)
}

func (c *CompositionRoot) CreateConfirmCodeCommandHandler() commands.ConfirmCodeCommandHandler {
	return commands.NewConfirmCodeCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateRegenerateCodesCommandHandler() commands.RegenerateCodesCommandHandler {
	return commands.NewRegenerateCodesCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateIngestLocationCommandHandler() commands.IngestLocationCommandHandler {
	return commands.NewIngestLocationCommandHandler(c.uow(), c.limiter, c.estimator, c.logger)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.driverUoW())
}

func (c *CompositionRoot) CreateChangeDriverShiftCommandHandler() commands.ChangeDriverShiftCommandHandler {
	return commands.NewChangeDriverShiftCommandHandler(c.driverUoW())
}

func (c *CompositionRoot) CreateVerifyDriverCommandHandler() commands.VerifyDriverCommandHandler {
	return commands.NewVerifyDriverCommandHandler(c.driverUoW())
}

func (c *CompositionRoot) CreateEndStaleShiftsCommandHandler() commands.EndStaleShiftsCommandHandler {
	return commands.NewEndStaleShiftsCommandHandler(c.driverUoW())
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryProgressQueryHandler() queries.GetDeliveryProgressQueryHandler {
	return queries.NewGetDeliveryProgressQueryHandler(c.gormDB, c.estimator.SpeedKmh())
}

func (c *CompositionRoot) CreateGetDeliveryHistoryQueryHandler() queries.GetDeliveryHistoryQueryHandler {
	return queries.NewGetDeliveryHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverQueryHandler() queries.GetDriverQueryHandler {
	return queries.NewGetDriverQueryHandler(c.gormDB)
}

// CreateServer builds the REST server over every use case.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateDelivery:   c.CreateCreateDeliveryCommandHandler(),
		DispatchDelivery: c.CreateDispatchDeliveryCommandHandler(),
		AdvanceDelivery:  c.CreateAdvanceDeliveryCommandHandler(),
		CancelDelivery:   c.CreateCancelDeliveryCommandHandler(),
		DeclineDelivery:  c.CreateDeclineDeliveryCommandHandler(),
		ConfirmCode:      c.CreateConfirmCodeCommandHandler(),
		RegenerateCodes:  c.CreateRegenerateCodesCommandHandler(),
		RateDelivery:     c.CreateRateDeliveryCommandHandler(),

		RegisterDriver:    c.CreateRegisterDriverCommandHandler(),
		ChangeDriverShift: c.CreateChangeDriverShiftCommandHandler(),
		VerifyDriver:      c.CreateVerifyDriverCommandHandler(),
		IngestLocation:    c.CreateIngestLocationCommandHandler(),

		GetDelivery:         c.CreateGetDeliveryQueryHandler(),
		ListDeliveries:      c.CreateListDeliveriesQueryHandler(),
		GetDeliveryProgress: c.CreateGetDeliveryProgressQueryHandler(),
		GetDeliveryHistory:  c.CreateGetDeliveryHistoryQueryHandler(),
		GetDriver:           c.CreateGetDriverQueryHandler(),
	})
}

// CreateJobManager schedules the dispatch sweep and the presence check.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewDispatchPendingJob(c.CreateDispatchPendingCommandHandler(), c.cfg.DispatchSchedule, c.cfg.DispatchBatchSize, c.logger),
		jobs.NewStaleShiftJob(c.CreateEndStaleShiftsCommandHandler(), c.cfg.PresenceSchedule, c.cfg.StaleAfter, c.logger),
	)
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
