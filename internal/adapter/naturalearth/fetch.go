// Package naturalearth resolves coordinates to countries and continents
// using the Natural Earth admin-0 boundary shapefile, fetched once into a
// local cache directory.
package naturalearth

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Basename shared by the four shapefile components inside the Natural Earth
// 1:50m admin-0 countries archive.
const Basename = "ne_50m_admin_0_countries"

// sidecarExts are the shapefile components that must all be present for the
// cache to count as populated. A partial extraction triggers a re-fetch.
var sidecarExts = []string{".shp", ".dbf", ".shx", ".prj"}

// EnsureDataset guarantees the boundary shapefile is available under dir,
// downloading and extracting the archive when any component is missing.
// Returns the path to the .shp file. The fetch happens at most once per
// cache lifetime; subsequent runs find the extracted files and return
// immediately.
func EnsureDataset(ctx context.Context, dir, url string, timeout time.Duration, logger *slog.Logger) (string, error) {
	shpPath := filepath.Join(dir, Basename+".shp")
	if datasetPresent(dir) {
		return shpPath, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	zipPath := filepath.Join(dir, Basename+".zip")
	if _, err := os.Stat(zipPath); err != nil {
		if err := download(ctx, url, zipPath, timeout, logger); err != nil {
			return "", err
		}
	}

	logger.Info("extracting boundary shapefile", "zip", zipPath)
	if err := extract(zipPath, dir); err != nil {
		return "", err
	}
	if !datasetPresent(dir) {
		return "", fmt.Errorf("archive %s did not contain all shapefile components %v", zipPath, sidecarExts)
	}
	return shpPath, nil
}

// datasetPresent reports whether all four shapefile components exist in dir.
func datasetPresent(dir string) bool {
	for _, ext := range sidecarExts {
		if _, err := os.Stat(filepath.Join(dir, Basename+ext)); err != nil {
			return false
		}
	}
	return true
}

func download(ctx context.Context, url, outPath string, timeout time.Duration, logger *slog.Logger) error {
	logger.Info("downloading boundary dataset", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}
	// The NACIS CDN rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; aeronet-dw-etl)")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download boundary dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download boundary dataset: status %d from %s", resp.StatusCode, url)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outPath) // don't leave a truncated archive for the next run
		return fmt.Errorf("write archive: %w", err)
	}
	logger.Info("download complete", "path", outPath)
	return nil
}

func extract(zipPath, dir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		name := filepath.Base(f.Name)
		if name == "." || strings.Contains(f.Name, "..") {
			continue
		}
		if err := extractFile(f, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s in archive: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return nil
}
