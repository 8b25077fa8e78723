package handler

import (
	"net/http"
	"strings"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	// 500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

const sessionHeader = "X-Session-ID"

// sessionID lit l'identifiant de session panier; en crée un au premier
// passage et le renvoie dans la réponse pour que le client le garde.
func sessionID(c echo.Context) string {
	sid := strings.TrimSpace(c.Request().Header.Get(sessionHeader))
	if sid == "" {
		sid = uuid.NewString()
	}
	c.Response().Header().Set(sessionHeader, sid)
	return sid
}

func adminEmail(c echo.Context) string {
	email, _ := c.Get(middleware.CtxAdminEmailKey).(string)
	return email
}
