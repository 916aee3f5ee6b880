// Package server - HTTP-Router und Server-Setup fuer aeforge
// Beinhaltet: Server-Struct, Router-Registrierung, Middleware, Server-Start
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/7blacky7/aeforge/building"
	"github.com/7blacky7/aeforge/envconfig"
	"github.com/7blacky7/aeforge/version"
)

// shutdownTimeout begrenzt das Warten auf laufende Anfragen beim Beenden
const shutdownTimeout = 5 * time.Second

// Server haelt die Adresse und die Build-Optionen fuer /api/build
type Server struct {
	addr         net.Addr
	buildOptions []building.Option
}

// ============================================================================
// Host-Pruefung gegen DNS-Rebinding
// ============================================================================

// trustedSuffixes sind Namensraeume, die nie oeffentlich aufgeloest werden
var trustedSuffixes = []string{".localhost", ".local", ".internal"}

// loopbackOnly meldet, ob addr nur ueber Loopback erreichbar ist
func loopbackOnly(addr net.Addr) bool {
	if addr == nil {
		return false
	}
	ap, err := netip.ParseAddrPort(addr.String())
	return err == nil && ap.Addr().IsLoopback()
}

// interfaceAddr meldet, ob ip einem Interface dieser Maschine gehoert
func interfaceAddr(ip netip.Addr) bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}

	ip = ip.Unmap()
	return slices.ContainsFunc(addrs, func(a net.Addr) bool {
		p, err := netip.ParsePrefix(a.String())
		return err == nil && p.Addr().Unmap() == ip
	})
}

// trustedHost prueft den Host-Header einer Anfrage. IP-Literale muessen
// lokal oder privat sein, Namen lokal aufloesbar.
func trustedHost(hostport string) bool {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = hostport
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")

	if ip, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || interfaceAddr(ip)
	}

	if host == "" || host == "localhost" {
		return true
	}
	if name, err := os.Hostname(); err == nil && strings.EqualFold(host, name) {
		return true
	}
	return slices.ContainsFunc(trustedSuffixes, func(suffix string) bool {
		return strings.HasSuffix(host, suffix)
	})
}

// hostGuard lehnt fremde Host-Header ab, solange der Server nur auf
// Loopback lauscht. Auf anderen Adressen ist er ein No-Op.
func hostGuard(addr net.Addr) gin.HandlerFunc {
	if !loopbackOnly(addr) {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !trustedHost(c.Request.Host) {
			slog.Debug("rejected host", "host", c.Request.Host, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "host not allowed"})
			return
		}
		c.Next()
	}
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
	}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(
		cors.New(corsConfig),
		hostGuard(s.addr),
	)

	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "aeforge is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "aeforge is running") })
	r.HEAD("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })

	r.GET("/api/variants", s.VariantsHandler)
	r.POST("/api/build", s.BuildHandler)

	return r
}

// Serve startet den HTTP-Server auf ln und blockiert bis ctx endet.
// Laufende Anfragen werden beim Beenden bis shutdownTimeout abgewartet.
func Serve(ctx context.Context, ln net.Listener, opts ...building.Option) error {
	slog.Info("server config", "env", envconfig.Values())

	s := &Server{addr: ln.Addr(), buildOptions: opts}
	srvr := &http.Server{Handler: s.GenerateRoutes()}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srvr.Serve(ln)
	}()

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("shutting down")
	if err := srvr.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
