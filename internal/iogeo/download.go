package iogeo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// progress is a byte counter shared by concurrent downloads. A nil
// progress shows nothing.
type progress struct {
	mu  sync.Mutex
	bar *pb.ProgressBar
}

func newProgress(prefix string) *progress {
	bar := pb.Full.Start64(0)
	bar.Set("prefix", prefix)
	bar.Set(pb.Bytes, true)
	bar.Set(pb.CleanOnFinish, true)
	return &progress{bar: bar}
}

func (p *progress) expect(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.SetTotal(p.bar.Total() + n)
}

func (p *progress) writer(w io.Writer) io.Writer {
	if p == nil {
		return w
	}
	return p.bar.NewProxyWriter(w)
}

func (p *progress) finish() {
	if p == nil {
		return
	}
	p.bar.Finish()
}

// newProgress returns nil when progress bars are disabled.
func (g *geoFetcher) newProgress(prefix string) *progress {
	if g.cfg.Repository.WithProgress == nil || !*g.cfg.Repository.WithProgress {
		return nil
	}
	return newProgress(prefix)
}

// get sends a GET request and checks the response status. The caller
// closes the body.
func (g *geoFetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp, nil
}

// download saves url into the dest file.
func (g *geoFetcher) download(
	ctx context.Context,
	url, dest string,
	prog *progress,
) error {
	resp, err := g.get(ctx, url)
	if err != nil {
		return DownloadError(url, err)
	}
	defer resp.Body.Close()
	prog.expect(resp.ContentLength)

	f, err := os.Create(dest)
	if err != nil {
		return DownloadError(url, err)
	}
	defer f.Close()

	if _, err = io.Copy(prog.writer(f), resp.Body); err != nil {
		return DownloadError(url, err)
	}
	if err = f.Close(); err != nil {
		return DownloadError(url, err)
	}
	return nil
}
