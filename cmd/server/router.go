package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storyboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/storyboard-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	generationHandler := api.NewGenerationHandler(
		app.scheduler,
		app.poller,
		app.config.Generation.Settings(app.config.LLM),
		app.logger,
	)
	eventStream := api.NewEventStream(app.emitter, api.DefaultEventStreamConfig(), app.logger)
	taskWatch := api.NewTaskWatch(app.poller, api.DefaultEventStreamConfig(), app.logger)

	r.Route("/api", func(r chi.Router) {
		// Batch runs, one active run per asset type
		r.Post("/batches/{assetType}", generationHandler.StartBatch)
		r.Get("/batches/{assetType}", generationHandler.GetBatch)
		r.Post("/batches/{assetType}/stop", generationHandler.StopBatch)

		r.Post("/generations", generationHandler.Generate)
		r.Get("/assets/{id}/busy", generationHandler.IsBusy)

		// Remote tasks
		r.Post("/tasks/{taskID}/poll", generationHandler.StartPolling)
		r.Get("/tasks/{taskID}", generationHandler.GetTask)
		r.Delete("/tasks/{taskID}", generationHandler.ConsumeTask)
		r.Get("/tasks/{taskID}/watch", taskWatch.ServeHTTP)

		r.Get("/events", eventStream.ServeHTTP)
	})

	r.Handle("/metrics", app.collector.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
