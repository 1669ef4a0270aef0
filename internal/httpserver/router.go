package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/service"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	pkgdb "github.com/Skotchmaster/ordermanagement/pkg/db"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/metrics"
	authmw "github.com/Skotchmaster/ordermanagement/pkg/middleware/auth"
)

type Deps struct {
	DB *gorm.DB

	Auth          *service.AuthService
	Customers     *service.CustomersService
	Products      *service.ProductsService
	Orders        *service.OrdersService
	OrderProducts *service.OrderProductsService
	Users         *service.UsersService

	Bearer    *authmw.BearerMiddleware
	RateLimit echo.MiddlewareFunc
	Gatherer  prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(d.Gatherer)))

	rateLimit := d.RateLimit
	if rateLimit == nil {
		rateLimit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	authHTTP := &AuthHTTP{Svc: d.Auth}
	authGroup := e.Group("/api/authentication", rateLimit)
	authGroup.POST("/signin", authHTTP.SignIn)
	authGroup.POST("/refreshtoken", authHTTP.RefreshToken)
	authGroup.POST("/signout", authHTTP.SignOut, d.Bearer.RequireAuth)

	api := e.Group("/api", d.Bearer.RequireAuth)

	searchHTTP := &SearchHTTP{Products: d.Products}
	api.GET("/products/search", searchHTTP.SearchProducts)

	(&EntityHTTP[transport.CustomerUpdate, transport.CustomerInsert, transport.CustomerUpdate, transport.CustomerListItem]{
		Name: "customers", Svc: d.Customers,
	}).register(api.Group("/customers"))
	(&EntityHTTP[transport.ProductUpdate, transport.ProductInsert, transport.ProductUpdate, transport.ProductListItem]{
		Name: "products", Svc: d.Products,
	}).register(api.Group("/products"))
	(&EntityHTTP[transport.OrderDisplay, transport.OrderInsert, transport.OrderUpdate, transport.OrdersListItem]{
		Name: "orders", Svc: d.Orders,
	}).register(api.Group("/orders"))
	(&EntityHTTP[transport.UserUpdate, transport.UserInsert, transport.UserUpdate, transport.UserListItem]{
		Name: "users", Svc: d.Users,
	}).register(api.Group("/users"))

	ordersHTTP := &OrdersHTTP{Orders: d.Orders, OrderProducts: d.OrderProducts}
	api.GET("/orders/:id/total", ordersHTTP.Total)
	api.POST("/orders/:id/products/list", ordersHTTP.ListProducts)
	api.POST("/orders/:id/products", ordersHTTP.BatchUpdateProducts)
}

func (d *Deps) ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := pkgdb.Ping(ctx, d.DB); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, transport.ErrorResponse{Message: "database unavailable"})
	}
	return c.NoContent(http.StatusOK)
}
