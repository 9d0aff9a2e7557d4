package hub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
)

// IncompleteSuffix marks a file still being written.
const IncompleteSuffix = ".incomplete"

var sha256Hex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Request describes one artifact download.
type Request struct {
	Repo     string
	Revision string
	File     string
	Dest     string

	// Resume continues from Dest+".incomplete" with a Range request.
	Resume bool
	// Verify checks the sha256 of the result when the registry publishes one.
	Verify bool

	// OnProgress is called with bytes written so far and the expected total
	// (-1 when unknown).
	OnProgress func(done, total int64)
}

// Result describes a completed download.
type Result struct {
	Path     string
	Revision string
	Size     int64
	SHA256   string
	Resumed  bool
	Verified bool
}

// Download fetches req.File into req.Dest. Dest only appears once the body
// is fully written (and verified, when requested).
func (c *Client) Download(ctx context.Context, req Request) (Result, error) {
	md, err := c.Metadata(ctx, req.Repo, req.Revision, req.File)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(filepath.Dir(req.Dest), 0o755); err != nil {
		return Result{}, fmt.Errorf("create %s: %w", filepath.Dir(req.Dest), err)
	}
	partial := req.Dest + IncompleteSuffix
	var offset int64
	if req.Resume {
		if fi, err := os.Stat(partial); err == nil && fi.Mode().IsRegular() {
			offset = fi.Size()
		}
	} else {
		_ = os.Remove(partial)
	}

	res, err := c.fetch(ctx, req, md, partial, offset)
	if err != nil {
		return Result{}, err
	}
	if err := os.Rename(partial, req.Dest); err != nil {
		return Result{}, fmt.Errorf("finalize %s: %w", req.Dest, err)
	}
	res.Path = req.Dest
	c.Logger.Info().Str("event", "hub_download_done").Str("file", req.File).Int64("bytes", res.Size).Bool("resumed", res.Resumed).Bool("verified", res.Verified).Msg("")
	return res, nil
}

func (c *Client) fetch(ctx context.Context, req Request, md FileMetadata, partial string, offset int64) (Result, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, c.ResolveURL(req.Repo, req.Revision, req.File))
	if err != nil {
		return Result{}, &Error{Kind: KindNetwork, File: req.File, Err: err}
	}
	if offset > 0 {
		httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	c.Logger.Debug().Str("event", "hub_download_start").Str("file", req.File).Int64("offset", offset).Msg("")
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return Result{}, &Error{Kind: KindNetwork, File: req.File, Err: err}
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch {
	case resp.StatusCode == http.StatusPartialContent && offset > 0:
		flags |= os.O_APPEND
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && offset > 0:
		// partial file is stale or already longer than the remote one
		_ = os.Remove(partial)
		return c.fetch(ctx, req, md, partial, 0)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		offset = 0
		flags |= os.O_TRUNC
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, statusError(req.File, resp.StatusCode, string(body))
	}

	hasher := sha256.New()
	if offset > 0 {
		if err := hashFile(hasher, partial); err != nil {
			return Result{}, fmt.Errorf("rehash partial %s: %w", partial, err)
		}
	}
	f, err := os.OpenFile(partial, flags, 0o644)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", partial, err)
	}

	total := int64(-1)
	if resp.ContentLength >= 0 {
		total = offset + resp.ContentLength
	} else if md.Size >= 0 {
		total = md.Size
	}
	pw := &progressWriter{done: offset, total: total, fn: req.OnProgress}
	pw.report()
	n, copyErr := io.Copy(io.MultiWriter(f, hasher, pw), resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return Result{}, &Error{Kind: KindNetwork, File: req.File, Err: copyErr}
	}
	if closeErr != nil {
		return Result{}, fmt.Errorf("close %s: %w", partial, closeErr)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	res := Result{
		Revision: firstNonEmpty(resp.Header.Get("X-Repo-Commit"), md.Revision),
		Size:     offset + n,
		SHA256:   sum,
		Resumed:  offset > 0,
	}
	if req.Verify && sha256Hex.MatchString(md.ETag) {
		if md.ETag != sum {
			_ = os.Remove(partial)
			return Result{}, &Error{
				Kind: KindIntegrity,
				File: req.File,
				Err:  fmt.Errorf("%w: want %s got %s", ErrIntegrity, md.ETag, sum),
			}
		}
		res.Verified = true
	}
	return res, nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

type progressWriter struct {
	done  int64
	total int64
	fn    func(done, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	p.report()
	return len(b), nil
}

func (p *progressWriter) report() {
	if p.fn != nil {
		p.fn(p.done, p.total)
	}
}
