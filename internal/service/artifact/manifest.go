package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
	"github.com/oshokin/mc-bootstrap/internal/logger"
)

// Manifest is the subset of Mojang's version manifest used here.
type Manifest struct {
	// Latest names the newest release and snapshot ids.
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	// Versions lists every published version.
	Versions []VersionRef `json:"versions"`
}

// VersionRef points at the metadata document of one version.
type VersionRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Download describes one downloadable file in version metadata.
type Download struct {
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
}

// versionMeta is the subset of the per-version metadata document used here.
type versionMeta struct {
	ID        string `json:"id"`
	Downloads struct {
		Server *Download `json:"server"`
	} `json:"downloads"`
}

// Release is a resolved server artifact.
type Release struct {
	// Version is the game version id.
	Version string
	Download
}

var (
	// errNoManifestURLs is returned when the resolver has nothing to try.
	errNoManifestURLs = errors.New("no manifest URLs configured")
	// errNoLatestRelease is returned when the manifest lacks latest.release.
	errNoLatestRelease = errors.New("manifest does not name a latest release")
	// errNoServerDownload is returned when version metadata has no server jar.
	errNoServerDownload = errors.New("version metadata has no server download")
)

// Resolver turns a version request into a Release using the version manifest.
type Resolver struct {
	// fs downloads manifest documents from http(s), file or mem URLs.
	fs afs.Service
	// manifestURLs are tried in order until one succeeds.
	manifestURLs []string
	// timeout bounds every document download.
	timeout time.Duration
}

// NewResolver creates a resolver trying manifestURLs in order.
func NewResolver(manifestURLs []string, timeout time.Duration) *Resolver {
	return &Resolver{
		fs:           afs.New(),
		manifestURLs: append([]string(nil), manifestURLs...),
		timeout:      timeout,
	}
}

// Resolve finds the server download for version, or for the latest release when
// latest is set or version is empty.
func (r *Resolver) Resolve(ctx context.Context, version string, latest bool) (*Release, error) {
	manifest, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	if latest || version == "" {
		if manifest.Latest.Release == "" {
			return nil, fmt.Errorf("%w: %w", setup.ErrVersionNotFound, errNoLatestRelease)
		}

		version = manifest.Latest.Release
	}

	ref, err := manifest.Find(version)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Resolved Minecraft version", "version", ref.ID, "type", ref.Type)

	var meta versionMeta
	if err = r.fetchJSON(ctx, ref.URL, &meta); err != nil {
		return nil, fmt.Errorf("version %s metadata: %w", ref.ID, err)
	}

	server := meta.Downloads.Server
	if server == nil || server.URL == "" {
		return nil, fmt.Errorf("version %s: %w", ref.ID, errNoServerDownload)
	}

	return &Release{
		Version:  ref.ID,
		Download: *server,
	}, nil
}

// Manifest downloads the first manifest that can be fetched and decoded.
func (r *Resolver) Manifest(ctx context.Context) (*Manifest, error) {
	if len(r.manifestURLs) == 0 {
		return nil, errNoManifestURLs
	}

	var lastErr error

	for _, manifestURL := range r.manifestURLs {
		var manifest Manifest

		err := r.fetchJSON(ctx, manifestURL, &manifest)
		if err == nil {
			return &manifest, nil
		}

		logger.WarnKV(ctx, "Version manifest unavailable", "url", manifestURL, "error", err)
		lastErr = err
	}

	return nil, fmt.Errorf("fetch version manifest: %w", lastErr)
}

// Find returns the manifest entry with the given id.
func (m *Manifest) Find(id string) (*VersionRef, error) {
	for i := range m.Versions {
		if m.Versions[i].ID == id {
			return &m.Versions[i], nil
		}
	}

	return nil, fmt.Errorf("%q: %w", id, setup.ErrVersionNotFound)
}

// fetchJSON downloads URL and decodes it into out.
// Download failures are network errors; decoding failures are not.
func (r *Resolver) fetchJSON(ctx context.Context, url string, out any) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	data, err := r.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return fmt.Errorf("%w: download %s: %w", setup.ErrNetwork, url, err)
	}

	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}

	return nil
}
