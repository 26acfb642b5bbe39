package document

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Poppler rasterizes PDF pages with the pdftoppm and pdfinfo tools
type Poppler struct {
	path     string
	pdftoppm string
	pdfinfo  string
}

// NewPoppler creates a rasterizer for the PDF at path. Empty tool names
// default to pdftoppm and pdfinfo looked up in PATH.
func NewPoppler(path, pdftoppm, pdfinfo string) *Poppler {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if pdfinfo == "" {
		pdfinfo = "pdfinfo"
	}
	return &Poppler{path: path, pdftoppm: pdftoppm, pdfinfo: pdfinfo}
}

// Path returns the PDF file being rendered
func (p *Poppler) Path() string {
	return p.path
}

// Info reads the page count and sizes with pdfinfo
func (p *Poppler) Info(ctx context.Context) (Info, error) {
	// pdfinfo only reports per-page sizes for an explicit page range
	out, err := p.run(ctx, p.pdfinfo, "-f", "1", "-l", "9999", p.path)
	if err != nil {
		return Info{}, err
	}
	info, err := ParsePDFInfo(out)
	if err != nil {
		return Info{}, pkgerrors.Wrapf(err, "failed to read page info of %s", p.path)
	}
	info.Path = p.path
	return info, nil
}

// RenderPage renders page (zero based) at 72*zoom dpi and rotates the result
func (p *Poppler) RenderPage(ctx context.Context, page int, zoom float64, rotation int) (*Raster, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}
	if !(zoom > 0) {
		return nil, fmt.Errorf("invalid zoom %g", zoom)
	}

	dir, err := os.MkdirTemp("", "takeoff-render-*")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create temp dir")
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	n := strconv.Itoa(page + 1)
	dpi := strconv.FormatFloat(72*zoom, 'f', 2, 64)
	if _, err := p.run(ctx, p.pdftoppm, "-f", n, "-l", n, "-r", dpi, "-png", "-singlefile", p.path, prefix); err != nil {
		return nil, err
	}

	f, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "page %d was not rendered", page)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to decode page %d", page)
	}

	return FromImage(Rotate(img, rotation)), nil
}

func (p *Poppler) run(ctx context.Context, tool string, args ...string) (string, error) {
	if _, err := exec.LookPath(tool); err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH, install poppler-utils", ErrRasterizerUnavailable, tool)
	}

	cmd := exec.CommandContext(ctx, tool, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("%s failed on %s: %v", filepath.Base(tool), p.path, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("\nstderr: ")
			errMsg.WriteString(strings.TrimSpace(stderr.String()))
		}
		return "", pkgerrors.New(errMsg.String())
	}

	return stdout.String(), nil
}
