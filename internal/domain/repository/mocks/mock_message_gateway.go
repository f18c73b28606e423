package mocks

import (
	"context"
	"reflect"

	"flightdesk-service/internal/domain/entity"

	"github.com/golang/mock/gomock"
)

// MockMessageGateway is a mock of MessageGateway interface
type MockMessageGateway struct {
	ctrl     *gomock.Controller
	recorder *MockMessageGatewayMockRecorder
}

// MockMessageGatewayMockRecorder is the mock recorder for MockMessageGateway
type MockMessageGatewayMockRecorder struct {
	mock *MockMessageGateway
}

// NewMockMessageGateway creates a new mock instance
func NewMockMessageGateway(ctrl *gomock.Controller) *MockMessageGateway {
	mock := &MockMessageGateway{ctrl: ctrl}
	mock.recorder = &MockMessageGatewayMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockMessageGateway) EXPECT() *MockMessageGatewayMockRecorder {
	return m.recorder
}

// Send mocks base method
func (m *MockMessageGateway) Send(ctx context.Context, channelID string, msg entity.Message) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Send", ctx, channelID, msg)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Send indicates an expected call of Send
func (mr *MockMessageGatewayMockRecorder) Send(ctx, channelID, msg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Send", reflect.TypeOf((*MockMessageGateway)(nil).Send), ctx, channelID, msg)
}

// Edit mocks base method
func (m *MockMessageGateway) Edit(ctx context.Context, channelID, messageID string, msg entity.Message) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Edit", ctx, channelID, messageID, msg)
	ret0, _ := ret[0].(error)
	return ret0
}

// Edit indicates an expected call of Edit
func (mr *MockMessageGatewayMockRecorder) Edit(ctx, channelID, messageID, msg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Edit", reflect.TypeOf((*MockMessageGateway)(nil).Edit), ctx, channelID, messageID, msg)
}

// Fetch mocks base method
func (m *MockMessageGateway) Fetch(ctx context.Context, channelID, messageID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Fetch", ctx, channelID, messageID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Fetch indicates an expected call of Fetch
func (mr *MockMessageGatewayMockRecorder) Fetch(ctx, channelID, messageID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Fetch", reflect.TypeOf((*MockMessageGateway)(nil).Fetch), ctx, channelID, messageID)
}
