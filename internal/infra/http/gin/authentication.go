package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/infra/security"
)

const PINHeader = "X-Access-PIN"

// PINMiddleware forwards the presented PIN to the buses, which enforce it.
type PINMiddleware struct {
	Authorizer security.PINAuthorizer
}

func (m PINMiddleware) Handle(c *gin.Context) {
	if pin := c.GetHeader(PINHeader); pin != "" {
		c.Request = c.Request.WithContext(security.WithPIN(c.Request.Context(), pin))
	}
	c.Next()
}

// Check lets the client verify a PIN before storing it.
func (m PINMiddleware) Check(c *gin.Context) {
	if err := m.Authorizer.Check(c.GetHeader(PINHeader)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pin_required": m.Authorizer.Enabled()})
}
