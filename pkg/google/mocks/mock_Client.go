// Package mocks provides test doubles for the google client.
package mocks

import (
	"context"

	google "github.com/connectsphere/connect-cli/pkg/google"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, query, maxResults
func (_m *MockClient) Search(ctx context.Context, query string, maxResults int) ([]google.Result, error) {
	ret := _m.Called(ctx, query, maxResults)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []google.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]google.Result, error)); ok {
		return rf(ctx, query, maxResults)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []google.Result); ok {
		r0 = rf(ctx, query, maxResults)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]google.Result)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, query, maxResults)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
