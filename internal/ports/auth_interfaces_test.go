package ports_test

import (
	"testing"

	mocks "github.com/spps-sekolah/spps-api/internal/mocks/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.WatchableAuthProvider = (*mocks.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.SessionBus = (*mocks.MemorySessionBus)(nil)
}
