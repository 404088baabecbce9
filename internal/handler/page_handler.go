package handler

import (
	"net/http"

	"pm-go/internal/middleware"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the HTML page shells
type PageHandler struct{}

// NewPageHandler creates a PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Page renders the template file for a gated page
func (h *PageHandler) Page(file, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		c.HTML(http.StatusOK, file, gin.H{
			"Title":  title,
			"UserID": userID,
		})
	}
}

// LoginPage renders the login form; signed-in users go to the dashboard
func (h *PageHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Login"})
}
