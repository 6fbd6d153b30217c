//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=../mocks/mock_account_repository.go -package=mocks
package repositories

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"context"
	goerrors "errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IAccountRepository interface {
	CreateAccount(ctx context.Context, email, hashedPassword string) (chat.UserID, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
}

type AccountRepository struct {
	db *badger.DB
}

func NewAccountRepository(db *badger.DB) AccountRepository {
	return AccountRepository{db: db}
}

// Account holds the credentials of a user. The public side of a user is
// its chat.Profile, stored separately under the same id.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

func accountKey(email string) string {
	return "account:" + strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount persists the account and returns the newly generated user id.
func (r AccountRepository) CreateAccount(ctx context.Context, email, hashedPassword string) (chat.UserID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	account := Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}
	err := update(r.db, func(txn *badger.Txn) error {
		key := []byte(accountKey(email))
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return setJSON(txn, string(key), account)
	})
	if err != nil {
		return "", err
	}
	return chat.UserID(account.ID), nil
}

func (r AccountRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	var account Account
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, accountKey(email), &account)
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return Account{}, errors.ErrInvalidCredentials
	}
	return account, err
}
