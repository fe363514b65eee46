package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxFn runs with repositories bound to a single database transaction.
type TxFn func(boards BoardRepositoryInterface, members MembershipRepositoryInterface) error

// TransactionManager groups board and membership writes into one atomic unit.
type TransactionManager interface {
	Do(ctx context.Context, fn TxFn) error
}

type GormTransactionManager struct {
	db *gorm.DB
}

var _ TransactionManager = (*GormTransactionManager)(nil)

func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

func (m *GormTransactionManager) Do(ctx context.Context, fn TxFn) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewBoardRepository(tx), NewMembershipRepository(tx))
	})
}
