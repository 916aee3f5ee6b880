// config_utils.go - Getter-Bausteine und Export der Konfiguration
//
// Dieses Modul enthaelt:
// - parsed: generischer Getter mit Default und Warnung bei ungueltigen Werten
// - Bool, Uint, String: die konkreten Getter der Variablen in config_data.go
// - EnvVar, AsMap, Values: Dokumentation und Log-Ausgabe
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// parsed liefert einen Getter, der key bei jedem Aufruf neu liest.
// Leere Werte ergeben def, ungueltige ebenfalls def plus eine Warnung.
func parsed[T any](key string, def T, parse func(string) (T, error)) func() T {
	return func() T {
		s := Var(key)
		if s == "" {
			return def
		}

		v, err := parse(s)
		if err != nil {
			slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", def)
			return def
		}
		return v
	}
}

// Bool liest einen Schalter, Default false
func Bool(key string) func() bool {
	return parsed(key, false, strconv.ParseBool)
}

// Uint liest eine nicht-negative Ganzzahl
func Uint(key string, def uint) func() uint {
	return parsed(key, def, func(s string) (uint, error) {
		n, err := strconv.ParseUint(s, 10, 0)
		return uint(n), err
	})
}

// String liest den Rohwert, leer wenn nicht gesetzt
func String(key string) func() string {
	return func() string { return Var(key) }
}

// =============================================================================
// Export
// =============================================================================

// EnvVar beschreibt eine Variable fuer die Hilfe-Ausgabe der CLI
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Variablen mit aktuellem Wert und Beschreibung zurueck
func AsMap() map[string]EnvVar {
	vars := []EnvVar{
		{"AEFORGE_DEBUG", LogLevel(), "Show additional debug information (e.g. AEFORGE_DEBUG=1)"},
		{"AEFORGE_HOST", Host(), "IP Address for the inspection server (default 127.0.0.1:11535)"},
		{"AEFORGE_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins"},
		{"AEFORGE_DATA", DataDir(), "The path to the dataset directory"},
		{"AEFORGE_DOWNLOAD_TIMEOUT", DownloadTimeout(), "How long a single dataset download may take (default \"5m\")"},
		{"AEFORGE_BATCH_SIZE", BatchSize(), "Batch size of the data loaders (default: 32)"},
		{"AEFORGE_NUM_WORKERS", NumWorkers(), "Prefetch workers per data loader (default: 2)"},
		{"AEFORGE_MNIST_MIRROR", Mirror(), "Base URL of the MNIST archives"},
		{"AEFORGE_OFFLINE", Offline(), "Never download datasets, fail if they are missing"},
	}

	m := make(map[string]EnvVar, len(vars))
	for _, v := range vars {
		m[v.Name] = v
	}
	return m
}

// Values gibt alle Werte als Strings zurueck, z.B. fuer das Server-Log
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprint(v.Value)
	}
	return vals
}
