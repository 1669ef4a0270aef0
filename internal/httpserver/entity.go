package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/util"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

// crudService is what every entity service offers: F is the model returned
// by Find, I the insert model, U the update model and L the list item.
type crudService[F, I, U, L any] interface {
	Find(ctx context.Context, id int64) (*F, error)
	List(ctx context.Context, p *repo.ListParams) ([]L, error)
	Insert(ctx context.Context, m I) (*U, error)
	Update(ctx context.Context, m U) (*U, error)
	Remove(ctx context.Context, ids ...int64) error
}

type EntityHTTP[F, I, U, L any] struct {
	Name string
	Svc  crudService[F, I, U, L]
}

func (h *EntityHTTP[F, I, U, L]) register(g *echo.Group) {
	g.POST("/list", h.List)
	g.GET("/:id", h.Get)
	g.PUT("", h.Insert)
	g.POST("", h.Update)
	g.DELETE("", h.Remove)
}

func (h *EntityHTTP[F, I, U, L]) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Name+".get")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	m, err := h.Svc.Find(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	l.Debug("get_success", "id", id)
	return c.JSON(http.StatusOK, m)
}

func (h *EntityHTTP[F, I, U, L]) List(c echo.Context) error {
	ctx := c.Request().Context()

	var p repo.ListParams
	if err := c.Bind(&p); err != nil {
		return badRequest("invalid body")
	}

	items, err := h.Svc.List(ctx, &p)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []L{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *EntityHTTP[F, I, U, L]) Insert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Name+".insert")

	var m I
	if err := c.Bind(&m); err != nil {
		l.Warn("insert_failed", "reason", "invalid body", "error", err)
		return badRequest("invalid body")
	}

	out, err := h.Svc.Insert(ctx, m)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EntityHTTP[F, I, U, L]) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Name+".update")

	var m U
	if err := c.Bind(&m); err != nil {
		l.Warn("update_failed", "reason", "invalid body", "error", err)
		return badRequest("invalid body")
	}

	out, err := h.Svc.Update(ctx, m)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Remove soft-deletes every id given as ?ids=1&ids=2 or ?ids=1,2.
func (h *EntityHTTP[F, I, U, L]) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Name+".remove")

	ids, bad := util.ParseIDs(c.QueryParams()["ids"])
	if bad != "" {
		l.Warn("remove_failed", "reason", "bad id", "value", bad)
		return badRequest("ids must be integers")
	}
	if len(ids) == 0 {
		return badRequest("ids are required")
	}

	if err := h.Svc.Remove(ctx, ids...); err != nil {
		return writeError(c, err)
	}
	l.Info("remove_success", "ids", ids)
	return c.NoContent(http.StatusOK)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return id, nil
}
