package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/app/commands"
	reportsapp "guesthouse/internal/app/handlers/reports"
	"guesthouse/internal/app/queries"
)

type ReportHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h ReportHandler) Download(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	year, ok := parseYear(c)
	if !ok {
		return
	}
	file, err := queries.Ask[reportsapp.DownloadReportQuery, *reportsapp.File](c.Request.Context(), h.Queries, reportsapp.DownloadReportQuery{Year: year})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h ReportHandler) Publish(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	year, ok := parseYear(c)
	if !ok {
		return
	}
	result, err := commands.Dispatch[reportsapp.PublishReportCommand, *reportsapp.Published](c.Request.Context(), h.Commands, reportsapp.PublishReportCommand{Year: year})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ ReportHTTP = ReportHandler{}
