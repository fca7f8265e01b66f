// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/williamokano/gulf/pkg/runner"
)

// MockRunner is a mock implementation of the runner.Runner interface
type MockRunner struct {
	mock.Mock
}

// Run provides a mock function with given fields: ctx, cmd
func (m *MockRunner) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	ret := m.Called(ctx, cmd)

	var r0 runner.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, runner.Command) (runner.Result, error)); ok {
		return rf(ctx, cmd)
	}
	if rf, ok := ret.Get(0).(func(context.Context, runner.Command) runner.Result); ok {
		r0 = rf(ctx, cmd)
	} else {
		r0 = ret.Get(0).(runner.Result)
	}

	if rf, ok := ret.Get(1).(func(context.Context, runner.Command) error); ok {
		r1 = rf(ctx, cmd)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockRunner creates a new instance of MockRunner
func NewMockRunner(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRunner {
	mock_1 := &MockRunner{}
	mock_1.Mock.Test(t)

	t.Cleanup(func() { mock_1.AssertExpectations(t) })

	return mock_1
}
