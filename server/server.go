// Package server exposes the gasless flows as a small JSON HTTP backend.
//
// The routes are unauthenticated. Deploy behind something that decides who
// may spend the gas station's fund.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/chinmay1088/gasline/flows"
)

const (
	readHeaderTimeout = 5 * time.Second
	requestTimeout    = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

// Deps are the upstream services behind the routes.
type Deps struct {
	Aptos        flows.AptosDeps
	AptosWallets flows.AptosWalletService
	Sui          flows.SuiDeps
	ZkLogin      flows.ZkLoginService

	// WalletSecret opens invisible wallet sessions.
	WalletSecret string
}

// Server routes requests to the flows.
type Server struct {
	deps    Deps
	mux     *http.ServeMux
	timeout time.Duration
}

// New registers all routes.
func New(deps Deps) *Server {
	s := &Server{deps: deps, mux: http.NewServeMux(), timeout: requestTimeout}

	s.handle("POST /buildAndSponsorTx", s.buildAndSponsorTx)
	s.handle("POST /sponsorTx", s.sponsorTx)
	s.handle("POST /sponsorAndSubmitTx", s.sponsorAndSubmitTx)
	s.handle("POST /invisibleWalletTx", s.invisibleWalletTx)
	s.handle("POST /sui/sponsorTx", s.suiSponsorTx)
	s.handle("POST /sui/executeTx", s.suiExecuteTx)
	s.handle("POST /zklogin/salt", s.zkLoginSalt)
	s.handle("POST /zklogin/proof", s.zkLoginProof)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "chain": s.deps.Aptos.Chain})
	})
	return s
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

var tracer = otel.Tracer("github.com/chinmay1088/gasline/server")

// handle wraps h with a request deadline, a trace span and error mapping.
func (s *Server) handle(pattern string, h func(w http.ResponseWriter, r *http.Request) error) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, pattern,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.route", r.URL.Path)),
		)
		defer span.End()
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		start := time.Now()
		err := h(w, r.WithContext(ctx))
		if err == nil {
			log.Printf("%s %s ok (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
			return
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var bad *badRequest
		if errors.As(err, &bad) {
			log.Printf("%s %s rejected: %v", r.Method, r.URL.Path, bad.err)
			writeError(w, http.StatusBadRequest, bad.err.Error())
			return
		}
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	})
}

// ListenAndServe serves handler on addr until ctx ends, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	log.Printf("listening on %s", addr)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Printf("server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
