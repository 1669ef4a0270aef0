package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/service"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/internal/util"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

type OrdersHTTP struct {
	Orders        *service.OrdersService
	OrderProducts *service.OrderProductsService
}

func (h *OrdersHTTP) Total(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	total, err := h.Orders.Total(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, total)
}

func (h *OrdersHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var p repo.ListParams
	if err := c.Bind(&p); err != nil {
		return badRequest("invalid body")
	}

	items, err := h.OrderProducts.List(ctx, id, &p)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []transport.OrderProductListItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrdersHTTP) BatchUpdateProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.batch_update_products")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var batch transport.OrderProductsBatch
	if err := c.Bind(&batch); err != nil {
		l.Warn("batch_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return badRequest("invalid body")
	}

	if err := h.OrderProducts.BatchUpdate(ctx, id, batch); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

type SearchHTTP struct {
	Products *service.ProductsService
}

func (h *SearchHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	q := c.QueryParam("q")
	if q == "" {
		return badRequest("q is required")
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Products.Search(ctx, q, page, size)
	if err != nil {
		return writeError(c, err)
	}
	l.Debug("search_success", "q", q, "total", res.Total)
	return c.JSON(http.StatusOK, res)
}
