package generators

import (
	"context"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"

	"github.com/toyz/pystubgen/internal/errors"
)

// Downloader fetches src into the directory dst, extracting archives
type Downloader interface {
	Download(ctx context.Context, src, dst string) error
}

// GetterDownloader downloads with go-getter, so src may be any address it
// detects: an https archive URL, a git repository, s3, a local path.
type GetterDownloader struct {
	Pwd string
}

// Download implements Downloader
func (d GetterDownloader) Download(ctx context.Context, src, dst string) error {
	pwd := d.Pwd
	if pwd == "" {
		pwd = "."
	}
	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return errors.WrapNetworkError("detect static files source", src, err)
	}
	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Pwd:     pwd,
		Mode:    getter.ClientModeDir,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		return errors.WrapNetworkError("download static files", src, err)
	}
	return nil
}

// staticFilesPath returns the directory with static stubs. When a download
// is configured it happens once per run into a temporary directory. An
// archive with a single top-level directory resolves to that directory.
func (g *Generator) staticFilesPath(ctx context.Context) (string, error) {
	if !g.cfg.DownloadStaticStubs || g.cfg.StaticFilesURL == "" {
		return g.cfg.StaticFilesPath, nil
	}
	if g.downloadedStatic != "" {
		return g.downloadedStatic, nil
	}

	dst, err := g.tempDir("static")
	if err != nil {
		return "", err
	}
	g.diag.Info("Downloading static files from %s", g.cfg.StaticFilesURL)
	if err := g.downloader.Download(ctx, g.cfg.StaticFilesURL, dst); err != nil {
		return "", err
	}

	entries, err := g.files.ListEntries(dst)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		dst = filepath.Join(dst, entries[0].Name())
	}
	g.diag.Debug("Static files are in %s", dst)
	g.downloadedStatic = dst
	return dst, nil
}
