package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/dbtest"
	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/search"
	pkghash "github.com/Skotchmaster/ordermanagement/pkg/hash"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(dbtest.Open(t))
}

func mustCustomer(t *testing.T, r *repo.GormRepo, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name}
	require.NoError(t, r.AddCustomer(context.Background(), c))
	return c
}

func mustProduct(t *testing.T, r *repo.GormRepo, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, UnitPrice: decimal.RequireFromString(price)}
	require.NoError(t, r.AddProduct(context.Background(), p))
	return p
}

func mustUser(t *testing.T, r *repo.GormRepo, username, password string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Name: username}
	if password != "" {
		h, err := pkghash.HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
		u.Password = h
	}
	require.NoError(t, r.AddUser(context.Background(), u))
	return u
}

func validationFailure(t *testing.T, err error) *apperr.ValidationFailure {
	t.Helper()
	var vf *apperr.ValidationFailure
	require.ErrorAs(t, err, &vf)
	return vf
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, _, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := event.(Event); ok {
		p.events = append(p.events, ev)
	}
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Entity + "." + ev.Type
	}
	return out
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed map[int64]models.Product
	deleted []int64
	err     error
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{indexed: map[int64]models.Product{}}
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[p.ID] = p
	return f.err
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return f.err
}

func (f *fakeIndexer) Search(_ context.Context, _ string, _, _ int) (int64, []search.ProductDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, nil, f.err
	}
	var docs []search.ProductDoc
	for _, p := range f.indexed {
		docs = append(docs, search.DocFromProduct(p))
	}
	return int64(len(docs)), docs, nil
}

var errBoom = errors.New("boom")
