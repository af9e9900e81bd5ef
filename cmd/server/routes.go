package main

import (
	"context"
	"net/http"
	"time"
)

// routes configures all HTTP routes for the service.
func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthCheck)

	entityHandler := app.entities.Handler()
	mux.HandleFunc("GET /entities", entityHandler.List)
	mux.HandleFunc("POST /entities", entityHandler.Create)
	mux.HandleFunc("GET /entities/{id}", entityHandler.Find)
	mux.HandleFunc("PUT /entities/{id}", entityHandler.Update)
	mux.HandleFunc("DELETE /entities/{id}", entityHandler.Delete)
	mux.HandleFunc("GET /kinds", entityHandler.Kinds)
	mux.HandleFunc("GET /entities/{id}/relations", entityHandler.Related)
	mux.HandleFunc("PUT /entities/{id}/relations/{otherId}", entityHandler.Relate)
	mux.HandleFunc("DELETE /entities/{id}/relations/{otherId}", entityHandler.Unrelate)

	tagHandler := app.tags.Handler()
	mux.HandleFunc("GET /tags", tagHandler.List)
	mux.HandleFunc("POST /tags", tagHandler.Create)
	mux.HandleFunc("DELETE /tags/{id}", tagHandler.Delete)
	mux.HandleFunc("GET /entities/{id}/tags", tagHandler.ForEntity)
	mux.HandleFunc("PUT /entities/{id}/tags/{tagId}", tagHandler.Attach)
	mux.HandleFunc("DELETE /entities/{id}/tags/{tagId}", tagHandler.Detach)

	imageHandler := app.images.Handler()
	mux.HandleFunc("GET /entities/{id}/images", imageHandler.List)
	mux.HandleFunc("POST /entities/{id}/images", imageHandler.Upload)
	mux.HandleFunc("PUT /entities/{id}/images/order", imageHandler.Reorder)
	mux.HandleFunc("GET /entities/{id}/images/{imageId}/data", imageHandler.Data)
	mux.HandleFunc("DELETE /entities/{id}/images/{imageId}", imageHandler.Delete)

	mux.HandleFunc("POST /cleanup/run", app.cleanup.Run)
	mux.HandleFunc("GET /cleanup/tasks", app.cleanup.Tasks)

	return mux
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// runCleanupLoop drains the cleanup queue on a fixed interval until ctx is
// cancelled. Failed tasks stay queued and are retried on later passes.
func (app *Application) runCleanupLoop(ctx context.Context) {
	interval := app.config.Cleanup.IntervalDuration()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.logger.Info("cleanup loop started",
		"interval", interval, "batch_limit", app.config.Cleanup.BatchLimit)

	for {
		select {
		case <-ctx.Done():
			app.logger.Info("cleanup loop stopped")
			return
		case <-ticker.C:
			stats, err := app.runner.Run(ctx, app.config.Cleanup.BatchLimit)
			if err != nil {
				app.logger.Error("scheduled cleanup run failed", "error", err)
				continue
			}
			if stats.Processed > 0 {
				app.logger.Info("scheduled cleanup run complete",
					"processed", stats.Processed,
					"deleted", stats.Deleted,
					"failed", stats.Failed,
					"remaining", stats.Remaining)
			}
		}
	}
}
