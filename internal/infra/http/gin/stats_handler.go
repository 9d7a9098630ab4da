package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/app/dto"
	analyticsapp "guesthouse/internal/app/handlers/analytics"
	"guesthouse/internal/app/queries"
)

// StatsHandler serves per-house reports when ?house= is set and the
// portfolio rollup otherwise.
type StatsHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h StatsHandler) Month(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	ctx := c.Request.Context()
	month := c.Param("month")
	var (
		result any
		err    error
	)
	if house := c.Query("house"); house != "" {
		result, err = queries.Ask[analyticsapp.MonthStatsQuery, *dto.MonthStats](ctx, h.Queries, analyticsapp.MonthStatsQuery{HouseID: house, Month: month})
	} else {
		result, err = queries.Ask[analyticsapp.PortfolioMonthQuery, *dto.PortfolioMonth](ctx, h.Queries, analyticsapp.PortfolioMonthQuery{Month: month})
	}
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h StatsHandler) Year(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	year, ok := parseYear(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var (
		result any
		err    error
	)
	if house := c.Query("house"); house != "" {
		result, err = queries.Ask[analyticsapp.HouseYearQuery, *dto.HouseYear](ctx, h.Queries, analyticsapp.HouseYearQuery{HouseID: house, Year: year})
	} else {
		result, err = queries.Ask[analyticsapp.PortfolioYearQuery, *dto.PortfolioYear](ctx, h.Queries, analyticsapp.PortfolioYearQuery{Year: year})
	}
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
		return 0, false
	}
	return year, true
}

var _ StatsHTTP = StatsHandler{}
