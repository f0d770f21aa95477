package interfaces

import (
	"context"

	domaintypes "ciphergate/internal/domain/types"
)

// Transport posts a JSON body to a backend path and returns the raw reply.
// Only network-level failures are returned as errors.
type Transport interface {
	Post(ctx context.Context, path string, body any) (domaintypes.Reply, error)
}
