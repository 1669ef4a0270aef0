package service

import (
	"context"

	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	pkghash "github.com/Skotchmaster/ordermanagement/pkg/hash"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

type UsersService struct {
	Repo       *repo.GormRepo
	Events     *Events
	BcryptCost int
}

func toUserUpdate(u *models.User) *transport.UserUpdate {
	return &transport.UserUpdate{ID: u.ID, Email: u.Email, Name: u.Name, Username: u.Username}
}

func (s *UsersService) Find(ctx context.Context, id int64) (*transport.UserUpdate, error) {
	u, err := s.Repo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserUpdate(u), nil
}

func (s *UsersService) List(ctx context.Context, p *repo.ListParams) ([]transport.UserListItem, error) {
	rows, err := s.Repo.ListUsers(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserListItem, len(rows))
	for i, u := range rows {
		out[i] = transport.UserListItem{ID: u.ID, Email: u.Email, Name: u.Name, Username: u.Username}
	}
	return out, nil
}

// Insert hashes the password before storing the user. A blank password
// leaves the hash empty, so the user cannot sign in.
func (s *UsersService) Insert(ctx context.Context, m transport.UserInsert) (*transport.UserUpdate, error) {
	l := logging.FromContext(ctx).With("svc", "users.insert")

	u := &models.User{Email: m.Email, Name: m.Name, Username: m.Username}
	if m.Password != "" {
		h, err := pkghash.HashPassword(m.Password, s.BcryptCost)
		if err != nil {
			l.Error("hash_password_failed", "error", err)
			return nil, err
		}
		u.Password = h
	}

	if err := s.Repo.AddUser(ctx, u); err != nil {
		return nil, err
	}
	l.Info("user_inserted", "id", u.ID)
	s.Events.Emit(ctx, EventInserted, models.EntityUsers, u.ID, toUserUpdate(u))
	return toUserUpdate(u), nil
}

func (s *UsersService) Update(ctx context.Context, m transport.UserUpdate) (*transport.UserUpdate, error) {
	var u *models.User
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if u, err = tx.FindUser(ctx, m.ID); err != nil {
			return err
		}
		u.Email = m.Email
		u.Name = m.Name
		u.Username = m.Username
		return tx.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.Events.Emit(ctx, EventUpdated, models.EntityUsers, u.ID, toUserUpdate(u))
	return toUserUpdate(u), nil
}

func (s *UsersService) Remove(ctx context.Context, ids ...int64) error {
	if err := removeAll(ctx, s.Repo, ids, (*repo.GormRepo).RemoveUser); err != nil {
		logging.FromContext(ctx).Warn("remove_users_failed", "svc", "users.remove", "ids", ids, "error", err)
		return err
	}
	for _, id := range ids {
		s.Events.Emit(ctx, EventRemoved, models.EntityUsers, id, nil)
	}
	return nil
}
