// Package server exposes the pipeline behind a single HTTP trigger route.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"newsroom/internal/newsroom"
	"newsroom/internal/serverutil"
)

// Runner is the unit of work behind the trigger route.
type Runner interface {
	Run(ctx context.Context) newsroom.RunResult
}

// Server handles trigger requests: each POST to the root route executes one
// full pipeline run and reports its outcome.
type Server struct {
	*http.Server

	runner Runner
}

func New(port int, runner Runner) *Server {
	r := serverutil.ErrRouter{Router: mux.NewRouter()}

	srvr := &Server{
		runner: runner,
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%d", port),
			ReadTimeout: 5 * time.Second,
			// The response blocks until every selected item has been
			// generated and published.
			WriteTimeout: 10 * time.Minute,
			Handler: handlers.CORS(
				handlers.AllowedMethods([]string{http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(serverutil.RecoverMiddleware(r)),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.HandleFuncE("/", srvr.postTrigger).Methods(http.MethodPost)

	slog.Debug("configured trigger server", "port", port)

	return srvr
}

// The request body is ignored: a trigger request has no parameters, it just
// starts a run. Partial failures still come back as a 200 with the run
// report; only a run-level failure maps to a 500.
func (s *Server) postTrigger(w http.ResponseWriter, r *http.Request) error {
	result := s.runner.Run(r.Context())

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}

	return serverutil.WriteJSON(w, status, result)
}
