package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	availabilityapp "guesthouse/internal/app/handlers/availability"
	pricingapp "guesthouse/internal/app/handlers/pricing"
	settingsapp "guesthouse/internal/app/handlers/settings"
	"guesthouse/internal/app/queries"
)

// SettingsHandler serves house configuration, rates and the booking form helpers.
type SettingsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h SettingsHandler) Houses(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	result, err := queries.Ask[settingsapp.ListHousesQuery, []dto.House](c.Request.Context(), h.Queries, settingsapp.ListHousesQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

func (h SettingsHandler) Rates(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	result, err := queries.Ask[settingsapp.GetRatesQuery, *dto.RateTable](c.Request.Context(), h.Queries, settingsapp.GetRatesQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SettingsHandler) SaveRates(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	var table dto.RateTable
	if err := c.ShouldBindJSON(&table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[settingsapp.SaveRatesCommand, *dto.RateTable](c.Request.Context(), h.Commands, settingsapp.SaveRatesCommand{Rates: table})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SettingsHandler) Occupied(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	query := availabilityapp.OccupiedNightsQuery{HouseID: c.Param("id"), ExcludeBookingID: c.Query("exclude")}
	result, err := queries.Ask[availabilityapp.OccupiedNightsQuery, *dto.OccupiedNights](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SettingsHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	query := pricingapp.QuoteQuery{HouseID: c.Param("id"), CheckIn: c.Query("check_in"), CheckOut: c.Query("check_out")}
	result, err := queries.Ask[pricingapp.QuoteQuery, *dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ SettingsHTTP = SettingsHandler{}
