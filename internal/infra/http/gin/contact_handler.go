package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	contactsapp "guesthouse/internal/app/handlers/contacts"
	"guesthouse/internal/app/queries"
)

type ContactHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type saveContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (h ContactHandler) List(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c)
		return
	}
	result, err := queries.Ask[contactsapp.ListContactsQuery, *dto.ContactCollection](c.Request.Context(), h.Queries, contactsapp.ListContactsQuery{Search: c.Query("q")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ContactHandler) Create(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h ContactHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h ContactHandler) save(c *gin.Context, id string, status int) {
	if h.Commands == nil {
		unavailable(c)
		return
	}
	var req saveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := contactsapp.SaveContactCommand{ID: id, Name: req.Name, Phone: req.Phone, Notes: req.Notes}
	result, err := commands.Dispatch[contactsapp.SaveContactCommand, *dto.Contact](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(status, result)
}

var _ ContactHTTP = ContactHandler{}
