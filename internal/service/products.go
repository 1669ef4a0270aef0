package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/internal/util"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

type ProductsService struct {
	Repo    *repo.GormRepo
	Events  *Events
	Indexer ProductIndexer
}

func toProductUpdate(p *models.Product) *transport.ProductUpdate {
	return &transport.ProductUpdate{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice}
}

func (s *ProductsService) Find(ctx context.Context, id int64) (*transport.ProductUpdate, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductUpdate(p), nil
}

func (s *ProductsService) List(ctx context.Context, p *repo.ListParams) ([]transport.ProductListItem, error) {
	rows, err := s.Repo.ListProducts(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProductListItem, len(rows))
	for i, row := range rows {
		out[i] = transport.ProductListItem{ID: row.ID, Name: row.Name, UnitPrice: row.UnitPrice}
	}
	return out, nil
}

func (s *ProductsService) Insert(ctx context.Context, m transport.ProductInsert) (*transport.ProductUpdate, error) {
	p := &models.Product{Name: m.Name, UnitPrice: m.UnitPrice}
	if err := s.Repo.AddProduct(ctx, p); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("product_inserted", "svc", "products.insert", "id", p.ID)
	s.index(ctx, *p)
	s.Events.Emit(ctx, EventInserted, models.EntityProducts, p.ID, toProductUpdate(p))
	return toProductUpdate(p), nil
}

func (s *ProductsService) Update(ctx context.Context, m transport.ProductUpdate) (*transport.ProductUpdate, error) {
	var p *models.Product
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if p, err = tx.FindProduct(ctx, m.ID); err != nil {
			return err
		}
		p.Name = m.Name
		p.UnitPrice = m.UnitPrice
		return tx.UpdateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, *p)
	s.Events.Emit(ctx, EventUpdated, models.EntityProducts, p.ID, toProductUpdate(p))
	return toProductUpdate(p), nil
}

func (s *ProductsService) Remove(ctx context.Context, ids ...int64) error {
	l := logging.FromContext(ctx).With("svc", "products.remove")
	if err := removeAll(ctx, s.Repo, ids, (*repo.GormRepo).RemoveProduct); err != nil {
		l.Warn("remove_products_failed", "ids", ids, "error", err)
		return err
	}
	for _, id := range ids {
		if s.Indexer != nil {
			if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
				l.Warn("unindex_product_failed", "id", id, "error", err)
			}
		}
		s.Events.Emit(ctx, EventRemoved, models.EntityProducts, id, nil)
	}
	return nil
}

// Search runs a fuzzy name search against the index. Without an index it
// falls back to a case-insensitive name match in the store.
func (s *ProductsService) Search(ctx context.Context, q string, page, size int) (*transport.SearchResponse, error) {
	offset, limit := util.Calculate(page, size)

	if s.Indexer == nil {
		rows, err := s.List(ctx, &repo.ListParams{
			StartRow: offset,
			EndRow:   limit,
			Filters:  map[string]any{"Name": q},
		})
		if err != nil {
			return nil, err
		}
		return &transport.SearchResponse{Total: int64(len(rows)), Items: rows}, nil
	}

	total, docs, err := s.Indexer.Search(ctx, q, offset, limit)
	if err != nil {
		return nil, errors.Join(ErrSearchUnavailable, err)
	}
	items := make([]transport.ProductListItem, len(docs))
	for i, d := range docs {
		items[i] = transport.ProductListItem{ID: d.ID, Name: d.Name, UnitPrice: d.UnitPrice}
	}
	return &transport.SearchResponse{Total: total, Items: items}, nil
}

var ErrSearchUnavailable = errors.New("search unavailable")

func (s *ProductsService) index(ctx context.Context, p models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "svc", "products", "id", p.ID, "error", err)
	}
}
