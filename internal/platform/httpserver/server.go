package httpserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	gatewayservice "gatekeeper/contexts/access-control/gateway-service"
	"gatekeeper/contexts/access-control/gateway-service/domain/entities"
	gatewayerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"

	_ "gatekeeper/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options carries transport wiring the gateway routes need.
type Options struct {
	Addr       string
	BasePath   string
	ConsentURL string
}

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	basePath   string
	consentURL string
	gateway    gatewayservice.Module
}

func New(gateway gatewayservice.Module, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       opts.Addr,
		basePath:   strings.TrimRight(opts.BasePath, "/"),
		consentURL: opts.ConsentURL,
		gateway:    gateway,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
		"base_path", s.basePath,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET "+s.basePath+"/{$}", s.handleAuthorize)
	s.mux.HandleFunc("GET "+s.basePath+"/authrequest", s.handleAuthRequest)
}

// handleAuthorize drives the OAuth round trip. A request without a code is
// sent to the provider consent page; a request with one runs the engine and
// reports the terminal outcome.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, s.consentURL, http.StatusFound)
		return
	}

	address := resolveClientAddress(r)
	resp, err := s.gateway.Handler.AuthorizeHandler(r.Context(), code, address)
	if err != nil {
		// A blank or whitespace-only code is as user-correctable as a
		// rejected one and gets the same response.
		if errors.Is(err, gatewayerrors.ErrMissingAuthorizationCode) {
			writeText(w, http.StatusBadRequest, "400: Invalid Token")
			return
		}
		if errors.Is(err, gatewayerrors.ErrMissingAddress) {
			writeText(w, http.StatusBadRequest, "400: Missing client address")
			return
		}
		writeText(w, http.StatusInternalServerError, "500: Internal Server Error.")
		return
	}

	switch entities.OutcomeKind(resp.Outcome) {
	case entities.OutcomeInvalidToken:
		writeText(w, http.StatusBadRequest, "400: Invalid Token")
	case entities.OutcomeNotInGuild:
		writeText(w, http.StatusForbidden, "403: You are not in the required guild")
	case entities.OutcomeMissingRole:
		writeText(w, http.StatusForbidden, "403: You do not have the required role.")
	case entities.OutcomeAlreadyAuthorized:
		writeText(w, http.StatusOK, "This ip is already authorized.")
	case entities.OutcomeAuthorized:
		writeText(w, http.StatusOK, "Successfully authorized "+resp.IdentityName+" at "+resp.Address)
	default:
		writeText(w, http.StatusInternalServerError, "500: Internal Server Error.")
	}
}

// handleAuthRequest is the reverse proxy sub-request endpoint: the proxy
// polls it on every inbound request and only reads the status code.
func (s *Server) handleAuthRequest(w http.ResponseWriter, r *http.Request) {
	address := resolveClientAddress(r)
	resp, err := s.gateway.Handler.CheckAddressHandler(r.Context(), address)
	if err != nil {
		// Store unavailability is not a deny; the proxy treats any
		// non-200 as blocked either way, but 500 keeps them apart.
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if resp.Allowed {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// resolveClientAddress trusts the proxy-supplied forwarded header verbatim
// and takes the first hop when several are chained. The value is an opaque
// whitelist key, not a validated IP.
func resolveClientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
