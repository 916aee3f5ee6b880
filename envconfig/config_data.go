// config_data.go - Variablen der Datenpipeline
//
// Dieses Modul enthaelt:
// - Batch-Groesse und Worker-Anzahl der Loader
// - Mirror-URL und Offline-Modus fuer den MNIST-Download
package envconfig

// =============================================================================
// Loader-Einstellungen
// =============================================================================

var (
	// BatchSize setzt die Batch-Groesse aller Loader
	// Konfigurierbar via AEFORGE_BATCH_SIZE
	BatchSize = Uint("AEFORGE_BATCH_SIZE", 32)

	// NumWorkers setzt die Anzahl der Prefetch-Worker pro Loader
	// Konfigurierbar via AEFORGE_NUM_WORKERS
	NumWorkers = Uint("AEFORGE_NUM_WORKERS", 2)
)

// =============================================================================
// Download-Einstellungen
// =============================================================================

var (
	// Mirror ueberschreibt die Basis-URL der MNIST-Archive
	Mirror = String("AEFORGE_MNIST_MIRROR")

	// Offline verbietet Downloads, fehlende Archive fuehren zu einem Fehler
	Offline = Bool("AEFORGE_OFFLINE")
)
