package service

import (
	"context"

	"github.com/klarkurs/mpu-platform/app/repository"
)

// Store is what services require from persistence: the full ledger
// plus the ability to run a closure inside one transaction.
type Store interface {
	repository.Ledger
	ExecTx(ctx context.Context, fn func(repository.Ledger) error) error
}
