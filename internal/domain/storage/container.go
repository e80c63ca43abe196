package storage

import (
	"sigpeche/internal/domain/accesscontrol"
	"sigpeche/internal/domain/deadlines"
	"sigpeche/internal/domain/documents"
	"sigpeche/internal/domain/notifhistory"
	"sigpeche/internal/domain/pushtokens"
	"sigpeche/internal/domain/subscriptions"
	"sigpeche/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	Users         users.Store
	AccessControl accesscontrol.Store
	Documents     documents.Store
	Deadlines     deadlines.Store
	Subscriptions subscriptions.Store
	History       notifhistory.Store
	PushTokens    pushtokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:         users.NewRepository(db),
		AccessControl: accesscontrol.NewRepository(db),
		Documents:     documents.NewRepository(db),
		Deadlines:     deadlines.NewRepository(db),
		Subscriptions: subscriptions.NewRepository(db),
		History:       notifhistory.NewRepository(db),
		PushTokens:    pushtokens.NewRepository(db),
	}
}
