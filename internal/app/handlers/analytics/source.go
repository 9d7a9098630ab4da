package analytics

import (
	"context"

	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/uow"
	domainanalytics "guesthouse/internal/domain/analytics"
	"guesthouse/internal/domain/houses"
)

// DatasetSource yields one consistent snapshot for a report.
type DatasetSource interface {
	Dataset(ctx context.Context) (domainanalytics.Dataset, error)
}

// StoreSource reads the dataset through a read-only unit of work.
type StoreSource struct {
	UoWFactory uow.UoWFactory
	Catalog    *houses.Catalog
}

func (s StoreSource) Dataset(ctx context.Context) (domainanalytics.Dataset, error) {
	unit, execCtx, release, err := uow.ReadOnly(ctx, s.UoWFactory)
	if err != nil {
		return domainanalytics.Dataset{}, err
	}
	defer release()

	bookings, err := unit.Bookings().List(execCtx)
	if err != nil {
		return domainanalytics.Dataset{}, err
	}
	cancellations, err := unit.Cancellations().List(execCtx)
	if err != nil {
		return domainanalytics.Dataset{}, err
	}
	dir, err := support.Directory(execCtx, unit)
	if err != nil {
		return domainanalytics.Dataset{}, err
	}
	rates, err := support.RateTable(execCtx, unit, s.Catalog)
	if err != nil {
		return domainanalytics.Dataset{}, err
	}
	return domainanalytics.Dataset{
		Catalog:       s.Catalog,
		Bookings:      bookings,
		Cancellations: cancellations,
		Contacts:      dir,
		Rates:         rates,
	}, nil
}
