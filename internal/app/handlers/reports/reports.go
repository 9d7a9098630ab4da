package reports

import (
	"context"
	"errors"
	"fmt"

	"guesthouse/internal/app/handlers/analytics"
	domainanalytics "guesthouse/internal/domain/analytics"
)

const (
	downloadReportKey = "reports.download"
	publishReportKey  = "reports.publish"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrUploaderMissing = errors.New("reports: no uploader configured")

// Renderer turns a year of data into a workbook.
type Renderer interface {
	Render(ds domainanalytics.Dataset, year int) ([]byte, error)
}

type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Published struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int    `json:"size"`
}

type DownloadReportQuery struct {
	Year int `json:"year" validate:"gte=1970,lte=9999"`
}

func (q DownloadReportQuery) Key() string { return downloadReportKey }

// PublishReportCommand renders a year report and stores it in object storage.
type PublishReportCommand struct {
	Year int `json:"year" validate:"gte=1970,lte=9999"`
}

func (c PublishReportCommand) Key() string { return publishReportKey }

type Handler struct {
	Source   analytics.DatasetSource
	Renderer Renderer
	Uploader Uploader
}

func (h *Handler) Download(ctx context.Context, q DownloadReportQuery) (*File, error) {
	data, err := h.render(ctx, q.Year)
	if err != nil {
		return nil, err
	}
	return &File{Name: FileName(q.Year), ContentType: ContentTypeXLSX, Data: data}, nil
}

func (h *Handler) Publish(ctx context.Context, cmd PublishReportCommand) (*Published, error) {
	if h.Uploader == nil {
		return nil, ErrUploaderMissing
	}
	data, err := h.render(ctx, cmd.Year)
	if err != nil {
		return nil, err
	}
	name := FileName(cmd.Year)
	url, err := h.Uploader.Upload(ctx, name, ContentTypeXLSX, data)
	if err != nil {
		return nil, fmt.Errorf("reports: upload %s: %w", name, err)
	}
	return &Published{Name: name, URL: url, Size: len(data)}, nil
}

func (h *Handler) render(ctx context.Context, year int) ([]byte, error) {
	ds, err := h.Source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return h.Renderer.Render(ds, year)
}

func FileName(year int) string {
	return fmt.Sprintf("guesthouse-report-%d.xlsx", year)
}
