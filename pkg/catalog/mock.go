package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xakep666/licensecatalog/pkg/spdx"
)

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, q Query) (spdx.LicenseInfo, bool, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(spdx.LicenseInfo), args.Bool(1), args.Error(2)
}
