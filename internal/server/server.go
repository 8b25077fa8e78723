package server

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers à enregistrer sur le serveur.
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminCoupon  *handler.AdminCouponHandler
}

// Start configure echo et bloque sur l'écoute. Chaque requête est bornée
// par un timeout: une soumission ne doit jamais pendre indéfiniment.
func Start(cfg config.Config, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.ContextTimeout(cfg.RequestTimeout))

	RegisterRoutes(e, cfg, h)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	s := &http.Server{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}
	return e.StartServer(s)
}
