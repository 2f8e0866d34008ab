package store

import (
	"fmt"
	"log/slog"

	"github.com/augmify/katana/pkg/core"
)

// Logger returns middleware that logs every action at debug level before it
// reaches the reducer.
func Logger[S any](logger *slog.Logger) Middleware[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(_ func() S, next core.Dispatch) core.Dispatch {
		return func(action core.Action) {
			logger.Debug("katana dispatch", "action", fmt.Sprintf("%T", action), "value", fmt.Sprintf("%+v", action))
			next(action)
		}
	}
}
