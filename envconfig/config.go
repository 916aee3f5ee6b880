// config.go - Haupt-Konfigurationsfunktionen fuer aeforge
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host des Inspektions-Servers zurueck (AEFORGE_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (AEFORGE_ORIGINS)
// - DataDir: Gibt das Datensatz-Verzeichnis zurueck (AEFORGE_DATA)
// - DownloadTimeout: Gibt das Download-Timeout zurueck (AEFORGE_DOWNLOAD_TIMEOUT)
// - LogLevel: Gibt Log-Level zurueck (AEFORGE_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_data.go: Datenpipeline-Variablen (Batch-Groesse, Worker, Mirror)
// - config_utils.go: Getter-Bausteine und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via AEFORGE_HOST
// Default: http://127.0.0.1:11535
func Host() *url.URL {
	defaultPort := "11535"

	s := strings.TrimSpace(Var("AEFORGE_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via AEFORGE_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("AEFORGE_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	return origins
}

// DataDir gibt das Wurzelverzeichnis fuer Datensaetze zurueck
// Konfigurierbar via AEFORGE_DATA
// Default: $HOME/.aeforge/data
func DataDir() string {
	if s := Var("AEFORGE_DATA"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return filepath.Join(home, ".aeforge", "data")
}

// DownloadTimeout gibt das Timeout fuer einen einzelnen Datensatz-Download zurueck
// Konfigurierbar via AEFORGE_DOWNLOAD_TIMEOUT
// 0 oder negative Werte = unendlich
// Default: 5 Minuten
func DownloadTimeout() (timeout time.Duration) {
	timeout = 5 * time.Minute
	if s := Var("AEFORGE_DOWNLOAD_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			timeout = d
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			timeout = time.Duration(n) * time.Second
		}
	}

	if timeout <= 0 {
		return time.Duration(math.MaxInt64)
	}

	return timeout
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via AEFORGE_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("AEFORGE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
