package building

import (
	"net/http"
	"time"

	"github.com/7blacky7/aeforge/data"
	"github.com/7blacky7/aeforge/envconfig"
)

// config sammelt die Einstellungen der Datenpipeline eines Builds
type config struct {
	dataDir    string
	batchSize  int
	numWorkers int
	mirror     string
	client     *http.Client
	timeout    time.Duration
	offline    bool
}

// Option konfiguriert Build und BuildDataModule
type Option func(*config)

func newConfig(opts []Option) config {
	c := config{
		dataDir:    envconfig.DataDir(),
		batchSize:  int(envconfig.BatchSize()),
		numWorkers: int(envconfig.NumWorkers()),
		mirror:     envconfig.Mirror(),
		timeout:    envconfig.DownloadTimeout(),
		offline:    envconfig.Offline(),
	}

	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) dataOptions() []data.Option {
	return []data.Option{
		data.WithBatchSize(c.batchSize),
		data.WithNumWorkers(c.numWorkers),
		data.WithMirror(c.mirror),
		data.WithHTTPClient(c.client),
		data.WithDownloadTimeout(c.timeout),
		data.WithOffline(c.offline),
	}
}

// WithDataDir setzt das Wurzelverzeichnis des Datensatzes
func WithDataDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.dataDir = dir
		}
	}
}

// WithBatchSize setzt die Batch-Groesse der Loader
func WithBatchSize(n int) Option {
	return func(c *config) {
		c.batchSize = n
	}
}

// WithNumWorkers setzt die Anzahl der Prefetch-Worker
func WithNumWorkers(n int) Option {
	return func(c *config) {
		c.numWorkers = n
	}
}

// WithMirror setzt die Basis-URL fuer den Download
func WithMirror(url string) Option {
	return func(c *config) {
		c.mirror = url
	}
}

// WithHTTPClient setzt den HTTP-Client fuer den Download
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithDownloadTimeout begrenzt die Dauer eines einzelnen Downloads
func WithDownloadTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithOffline verbietet Downloads
func WithOffline(offline bool) Option {
	return func(c *config) {
		c.offline = offline
	}
}
