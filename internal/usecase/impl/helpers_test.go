package impl

import (
	"io"
	"log/slog"
	"time"

	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/ratelimit"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoginGuard() ratelimit.LoginGuard {
	return ratelimit.NewLoginGuard(ratelimit.Rule{
		MaxRequests:   3,
		Window:        time.Minute,
		BlockDuration: time.Minute,
	})
}

// newStubTx wires a pass-through transaction manager around the given
// repository mocks.
func newStubTx(factory *mockRepo.StubFactory) *mockRepo.StubTransactionManager {
	return &mockRepo.StubTransactionManager{Factory: factory}
}
