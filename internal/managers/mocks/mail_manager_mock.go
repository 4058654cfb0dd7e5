package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendConfirmationMail(email, username, confirmationLink string) error {
	args := m.Called(email, username, confirmationLink)
	return args.Error(0)
}
