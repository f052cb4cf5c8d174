package api

import (
	"context"

	"github.com/AUDL2018/tiny-message-api/internal/auth"
	"github.com/AUDL2018/tiny-message-api/internal/model"
)

// Store is the data-access contract the handlers depend on. Every call
// may block while the underlying store does its work; implementations
// must honor the passed context.
type Store interface {
	CreateUser(ctx context.Context, username, password string) (*model.User, error)
	FindUserByCredentials(ctx context.Context, username, password string) (*model.User, error)
	CreateMessage(ctx context.Context, text string, userID int64) (*model.Message, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	ListMessagesByUser(ctx context.Context, userID int64) ([]model.Message, error)
}

type API struct {
	Store    Store
	Sessions *auth.SessionStore
}

func NewAPI(store Store, sessions *auth.SessionStore) *API {
	return &API{
		Store:    store,
		Sessions: sessions,
	}
}
