package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/mocks"
	"github.com/sanghyxuk/number-baseball/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MockGateway *mocks.MockGateway
}

// NewTestApp creates an App configured for testing with mocked
// dependencies and a recording gateway instead of a live transport
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockGateway := mocks.NewMockGateway()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, mockGateway, nil, logger)

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MockGateway: mockGateway,
	}
}
