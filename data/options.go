package data

import (
	"net/http"
	"time"
)

// DefaultMirror ist die Basis-URL fuer die MNIST-Archive
const DefaultMirror = "https://ossci-datasets.s3.amazonaws.com/mnist/"

// Standardwerte des DataModule
const (
	DefaultBatchSize  = 32
	DefaultNumWorkers = 2

	TrainSize = 55000
	ValSize   = 5000
)

// Option konfiguriert ein DataModule
type Option func(*DataModule)

// WithBatchSize setzt die Batch-Groesse aller Loader
func WithBatchSize(n int) Option {
	return func(dm *DataModule) {
		if n > 0 {
			dm.batchSize = n
		}
	}
}

// WithNumWorkers setzt die Anzahl paralleler Vorverarbeitungs-Worker
func WithNumWorkers(n int) Option {
	return func(dm *DataModule) {
		if n > 0 {
			dm.numWorkers = n
		}
	}
}

// WithMirror setzt die Basis-URL fuer Downloads
func WithMirror(url string) Option {
	return func(dm *DataModule) {
		if url != "" {
			dm.mirror = url
		}
	}
}

// WithHTTPClient setzt den HTTP-Client fuer Downloads
func WithHTTPClient(c *http.Client) Option {
	return func(dm *DataModule) {
		if c != nil {
			dm.client = c
		}
	}
}

// WithDownloadTimeout begrenzt die Dauer eines einzelnen Downloads
func WithDownloadTimeout(d time.Duration) Option {
	return func(dm *DataModule) {
		if d > 0 {
			dm.timeout = d
		}
	}
}

// WithOffline verbietet Downloads. Prepare schlaegt dann fehl,
// wenn ein Archiv fehlt.
func WithOffline(offline bool) Option {
	return func(dm *DataModule) {
		dm.offline = offline
	}
}
