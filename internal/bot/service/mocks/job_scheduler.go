package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-xmas-reminder/internal/scheduler"
)

type JobScheduler struct {
	mock.Mock
}

func (m *JobScheduler) ScheduleDaily(key string, hour, minute int, payload scheduler.DailyPayload) error {
	args := m.Called(key, hour, minute, payload)
	return args.Error(0)
}

func (m *JobScheduler) ReplaceDaily(key string, hour, minute int, payload scheduler.DailyPayload) error {
	args := m.Called(key, hour, minute, payload)
	return args.Error(0)
}

func (m *JobScheduler) Cancel(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

func (m *JobScheduler) Exists(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

func (m *JobScheduler) ScheduleOnce(key string, delay time.Duration, payload scheduler.OncePayload) error {
	args := m.Called(key, delay, payload)
	return args.Error(0)
}
