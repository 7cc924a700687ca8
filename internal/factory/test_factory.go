package factory

import (
	"time"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/dependencies/mocks"
	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/memory"
	"github.com/mcoot/shadowsprint/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Memory    *memory.Storage // nil when disconnected
}

// NewTestApp creates an App backed by an in-memory store and a mock clock
func NewTestApp() *TestApp {
	store := memory.New()
	app := newTestApp(storage.Connect(store))
	app.Memory = store
	return app
}

// NewDisconnectedTestApp creates an App with no store, as when none is configured
func NewDisconnectedTestApp() *TestApp {
	return newTestApp(storage.Disconnected())
}

// NewTestAppWithStore creates an App around an arbitrary store
func NewTestAppWithStore(store storage.Store) *TestApp {
	return newTestApp(storage.Connect(store))
}

func newTestApp(handle storage.Handle) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	app := newWithDependencies(handle, mockClock, config.DefaultGame(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
