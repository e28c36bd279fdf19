package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type TxManager struct {
	mock.Mock
}

func (m *TxManager) WithTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error {
	args := m.Called(ctx, txFunc)
	return args.Error(0)
}
