package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorageManager struct {
	mock.Mock
}

func (m *MockStorageManager) UploadAvatar(ctx context.Context, body io.Reader, key, contentType string) (string, error) {
	args := m.Called(ctx, body, key, contentType)
	return args.String(0), args.Error(1)
}
