package service

import (
	"log/slog"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	analyticsapp "guesthouse/internal/app/handlers/analytics"
	availabilityapp "guesthouse/internal/app/handlers/availability"
	bookingsapp "guesthouse/internal/app/handlers/bookings"
	contactsapp "guesthouse/internal/app/handlers/contacts"
	pricingapp "guesthouse/internal/app/handlers/pricing"
	reportsapp "guesthouse/internal/app/handlers/reports"
	settingsapp "guesthouse/internal/app/handlers/settings"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/middleware"
	"guesthouse/internal/app/outbox"
	"guesthouse/internal/app/queries"
	"guesthouse/internal/app/uow"
	"guesthouse/internal/domain/houses"
)

// Deps are the ports the application is assembled from. Optional ones may
// be left nil.
type Deps struct {
	UoWFactory  uow.UoWFactory
	Catalog     *houses.Catalog
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Idempotency middleware.IdempotencyStore

	// Reports defaults to reading through UoWFactory.
	Reports        analyticsapp.DatasetSource
	ReportRenderer reportsapp.Renderer
	ReportUploader reportsapp.Uploader

	Authorizer middleware.Authorizer
	Metrics    middleware.Recorder
	Validator  middleware.Validator

	Clock  support.Clock
	IDs    support.IDs
	Logger *slog.Logger
}

type Application struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Build registers every handler and wraps both buses in the middleware
// chain, outermost first: metrics, authorization, validation, idempotency,
// outbox flush and transaction. Events reach the outbox only after commit.
func Build(d Deps) *Application {
	if d.UoWFactory == nil {
		panic("service: uow factory required")
	}
	if d.Catalog == nil {
		d.Catalog = houses.DefaultCatalog()
	}
	if d.Encoder == nil {
		d.Encoder = outbox.JSONEventEncoder{Source: "guesthouse"}
	}
	if d.Reports == nil {
		d.Reports = analyticsapp.StoreSource{UoWFactory: d.UoWFactory, Catalog: d.Catalog}
	}
	if d.Validator == nil {
		d.Validator = middleware.NewStructValidator()
	}

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	commands.RegisterHandler(commandBus, &bookingsapp.SaveBookingHandler{
		UoWFactory: d.UoWFactory,
		Catalog:    d.Catalog,
		Outbox:     d.Outbox,
		Encoder:    d.Encoder,
		Clock:      d.Clock,
		IDs:        d.IDs,
	})
	commands.RegisterHandler(commandBus, &bookingsapp.DeleteBookingHandler{
		UoWFactory: d.UoWFactory,
		Outbox:     d.Outbox,
		Encoder:    d.Encoder,
		Clock:      d.Clock,
	})
	comments := &bookingsapp.CommentsHandler{UoWFactory: d.UoWFactory, Clock: d.Clock, IDs: d.IDs}
	commands.RegisterHandler(commandBus, commands.HandlerFunc[bookingsapp.AddCommentCommand, *dto.Booking](comments.Add))
	commands.RegisterHandler(commandBus, commands.HandlerFunc[bookingsapp.RemoveCommentCommand, *dto.Booking](comments.Remove))
	commands.RegisterHandler(commandBus, &contactsapp.SaveContactHandler{UoWFactory: d.UoWFactory, Clock: d.Clock, IDs: d.IDs})

	settings := &settingsapp.Handler{UoWFactory: d.UoWFactory, Catalog: d.Catalog}
	commands.RegisterHandler(commandBus, commands.HandlerFunc[settingsapp.SaveRatesCommand, *dto.RateTable](settings.SaveRates))

	reports := &reportsapp.Handler{Source: d.Reports, Renderer: d.ReportRenderer, Uploader: d.ReportUploader}
	if d.ReportRenderer != nil {
		commands.RegisterHandler(commandBus, commands.HandlerFunc[reportsapp.PublishReportCommand, *reportsapp.Published](reports.Publish))
		queries.RegisterHandler(queryBus, queries.HandlerFunc[reportsapp.DownloadReportQuery, *reportsapp.File](reports.Download))
	}

	bookingQueries := &bookingsapp.QueryHandler{UoWFactory: d.UoWFactory}
	queries.RegisterHandler(queryBus, queries.HandlerFunc[bookingsapp.ListBookingsQuery, *dto.BookingCollection](bookingQueries.List))
	queries.RegisterHandler(queryBus, queries.HandlerFunc[bookingsapp.GetBookingQuery, *dto.Booking](bookingQueries.Get))
	queries.RegisterHandler(queryBus, queries.HandlerFunc[bookingsapp.ListCancellationsQuery, *dto.CancellationCollection](bookingQueries.Cancellations))
	queries.RegisterHandler(queryBus, &contactsapp.ListContactsHandler{UoWFactory: d.UoWFactory})
	queries.RegisterHandler(queryBus, queries.HandlerFunc[settingsapp.GetRatesQuery, *dto.RateTable](settings.GetRates))
	queries.RegisterHandler(queryBus, queries.HandlerFunc[settingsapp.ListHousesQuery, []dto.House](settings.ListHouses))
	queries.RegisterHandler(queryBus, &availabilityapp.OccupiedNightsHandler{UoWFactory: d.UoWFactory, Catalog: d.Catalog})
	queries.RegisterHandler(queryBus, &pricingapp.QuoteHandler{UoWFactory: d.UoWFactory, Catalog: d.Catalog})

	stats := &analyticsapp.Handler{Source: d.Reports}
	queries.RegisterHandler(queryBus, queries.HandlerFunc[analyticsapp.MonthStatsQuery, *dto.MonthStats](stats.Month))
	queries.RegisterHandler(queryBus, queries.HandlerFunc[analyticsapp.PortfolioMonthQuery, *dto.PortfolioMonth](stats.PortfolioMonth))
	queries.RegisterHandler(queryBus, queries.HandlerFunc[analyticsapp.HouseYearQuery, *dto.HouseYear](stats.HouseYear))
	queries.RegisterHandler(queryBus, queries.HandlerFunc[analyticsapp.PortfolioYearQuery, *dto.PortfolioYear](stats.PortfolioYear))

	cmdChain := []middleware.CommandMiddleware{middleware.CommandMetrics(d.Metrics)}
	qryChain := []middleware.QueryMiddleware{middleware.QueryMetrics(d.Metrics)}
	if d.Authorizer != nil {
		cmdChain = append(cmdChain, middleware.Authorization(d.Authorizer))
		qryChain = append(qryChain, middleware.QueryAuthorization(d.Authorizer))
	}
	cmdChain = append(cmdChain, middleware.Validation(d.Validator))
	qryChain = append(qryChain, middleware.QueryValidation(d.Validator))
	if d.Idempotency != nil {
		cmdChain = append(cmdChain, middleware.Idempotency(d.Idempotency, nil))
	}
	if d.Outbox != nil {
		cmdChain = append(cmdChain, middleware.OutboxFlush(d.Outbox, d.Logger))
	}
	cmdChain = append(cmdChain, middleware.Transaction(d.UoWFactory, txOptions))

	return &Application{
		Commands: middleware.ChainCommands(commandBus, cmdChain...),
		Queries:  middleware.ChainQueries(queryBus, qryChain...),
	}
}

func txOptions(cmd commands.Command) uow.TxOptions {
	if _, ok := cmd.(reportsapp.PublishReportCommand); ok {
		return uow.TxOptions{ReadOnly: true}
	}
	return uow.TxOptions{}
}
