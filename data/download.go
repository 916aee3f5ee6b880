package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ErrDatasetMissing wenn im Offline-Modus ein Archiv fehlt
var ErrDatasetMissing = errors.New("data: dataset not present")

// Prepare stellt sicher, dass alle Archive unter RawDir(DataDir()) liegen.
// Fehlende Archive werden parallel heruntergeladen. Vorhandene Archive
// werden nicht erneut geladen, wiederholte Aufrufe sind daher billig.
func (dm *DataModule) Prepare(ctx context.Context) error {
	dm.prepareMu.Lock()
	defer dm.prepareMu.Unlock()

	raw := RawDir(dm.dataDir)
	if err := os.MkdirAll(raw, 0o755); err != nil {
		return err
	}

	var missing []string
	for _, name := range archives {
		path := filepath.Join(raw, name)
		if _, err := os.Stat(path); err == nil {
			slog.Debug("archive present", "path", path)
			continue
		}

		if dm.offline {
			return fmt.Errorf("%w: %s", ErrDatasetMissing, path)
		}
		missing = append(missing, name)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range missing {
		g.Go(func() error {
			return dm.download(ctx, name, filepath.Join(raw, name))
		})
	}

	return g.Wait()
}

func (dm *DataModule) download(ctx context.Context, name, dst string) error {
	u, err := url.JoinPath(dm.mirror, name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	slog.Info("downloading", "url", u)
	resp, err := dm.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", u, resp.Status)
	}

	// temporaere Datei im Zielverzeichnis, damit Rename atomar bleibt
	tmp, err := os.CreateTemp(filepath.Dir(dst), name+".partial-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return err
	}

	slog.Debug("downloaded", "path", dst, "bytes", n)
	return nil
}
