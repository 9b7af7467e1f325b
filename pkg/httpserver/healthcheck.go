package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/filemanager/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// StatusHandler runs every named check concurrently and writes a JSON object
// mapping each name to its result, e.g. {"db":true,"redis":false}. The status
// is 200 when all checks pass and 503 otherwise.
func StatusHandler(log *slog.Logger, timeout time.Duration, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			result = make(map[string]bool, len(checks))
			ready  = true
		)
		for name, check := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := check(ctx)
				if err != nil {
					log.WarnContext(ctx, "status check failed", slog.String("check", name), logger.Error(err))
				}
				mu.Lock()
				result[name] = err == nil
				ready = ready && err == nil
				mu.Unlock()
			}()
		}
		wg.Wait()

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	}
}
