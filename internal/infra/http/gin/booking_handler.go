package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	bookingsapp "guesthouse/internal/app/handlers/bookings"
	"guesthouse/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type saveBookingRequest struct {
	HouseID     string                    `json:"house_id"`
	CheckIn     string                    `json:"check_in"`
	CheckOut    string                    `json:"check_out"`
	Status      string                    `json:"status"`
	ContactID   string                    `json:"contact_id"`
	Contact     *bookingsapp.ContactInput `json:"contact"`
	Guests      int                       `json:"guests"`
	Price       *int64                    `json:"price"`
	PriceManual bool                      `json:"price_manual"`
	Notes       string                    `json:"notes"`
}

func (r saveBookingRequest) command(id, idempotencyKey string) bookingsapp.SaveBookingCommand {
	return bookingsapp.SaveBookingCommand{
		ID:              id,
		HouseID:         r.HouseID,
		CheckIn:         r.CheckIn,
		CheckOut:        r.CheckOut,
		Status:          r.Status,
		ContactID:       r.ContactID,
		Contact:         r.Contact,
		Guests:          r.Guests,
		Price:           r.Price,
		PriceManual:     r.PriceManual,
		Notes:           r.Notes,
		IdempotencyKeyV: idempotencyKey,
	}
}

func (h BookingHandler) List(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	query := bookingsapp.ListBookingsQuery{HouseID: c.Query("house"), Month: c.Query("month")}
	result, err := queries.Ask[bookingsapp.ListBookingsQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	result, err := queries.Ask[bookingsapp.GetBookingQuery, *dto.Booking](c.Request.Context(), h.Queries, bookingsapp.GetBookingQuery{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h BookingHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h BookingHandler) save(c *gin.Context, id string) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	var req saveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := req.command(id, c.GetHeader("Idempotency-Key"))
	result, err := commands.Dispatch[bookingsapp.SaveBookingCommand, *bookingsapp.SaveBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h BookingHandler) Delete(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	result, err := commands.Dispatch[bookingsapp.DeleteBookingCommand, *dto.Cancellation](c.Request.Context(), h.Commands, bookingsapp.DeleteBookingCommand{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h BookingHandler) AddComment(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingsapp.AddCommentCommand{BookingID: c.Param("id"), Text: req.Text}
	result, err := commands.Dispatch[bookingsapp.AddCommentCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) RemoveComment(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	cmd := bookingsapp.RemoveCommentCommand{BookingID: c.Param("id"), CommentID: c.Param("commentID")}
	result, err := commands.Dispatch[bookingsapp.RemoveCommentCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancellations(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	query := bookingsapp.ListCancellationsQuery{Month: c.Query("month")}
	result, err := queries.Ask[bookingsapp.ListCancellationsQuery, *dto.CancellationCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
