package stream

import (
	"context"

	"venuestream/internal/model"
)

// StaticAccounts serves a fixed account list.
type StaticAccounts []model.AccountRef

func (a StaticAccounts) CurrentAccounts() []model.AccountRef {
	return a
}

// AccountIDs builds a StaticAccounts from bare ids.
func AccountIDs(ids ...string) StaticAccounts {
	accounts := make(StaticAccounts, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, model.AccountRef{ID: id})
	}
	return accounts
}

// StaticCredentials serves fixed credentials.
type StaticCredentials Credentials

func (c StaticCredentials) StreamingCredentials(context.Context) (Credentials, error) {
	return Credentials(c), nil
}
