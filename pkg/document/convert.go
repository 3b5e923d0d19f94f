package document

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

// ConverterConfig configures the external document converter.
type ConverterConfig struct {
	// SofficePath overrides binary resolution. Empty consults
	// $SOFFICE_PATH, then PATH, then the common macOS install path.
	SofficePath string

	// Timeout bounds one conversion run. Zero means the default 2m.
	Timeout time.Duration
}

// Converter invokes LibreOffice headless to produce a PDF from an office
// document.
type Converter struct {
	cfg ConverterConfig
}

// NewConverter creates a converter. Binary resolution happens per call so
// a missing tool surfaces as an ExternalTool job error, not a startup
// failure.
func NewConverter(cfg ConverterConfig) *Converter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Converter{cfg: cfg}
}

func (c *Converter) resolveBinary() (string, error) {
	if p := strings.TrimSpace(c.cfg.SofficePath); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p := strings.TrimSpace(os.Getenv("SOFFICE_PATH")); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p, err := exec.LookPath("soffice"); err == nil {
		return p, nil
	}
	const macPath = "/Applications/LibreOffice.app/Contents/MacOS/soffice"
	if _, err := os.Stat(macPath); err == nil {
		return macPath, nil
	}
	return "", apperrors.ExternalTool("soffice not found; install LibreOffice or set SOFFICE_PATH")
}

// Convert produces outDir/<stem>.pdf from inputPath. The run is bounded by
// the configured timeout; the tool's stderr is embedded in the error on
// failure.
func (c *Converter) Convert(ctx context.Context, inputPath, outDir string) (string, error) {
	bin, err := c.resolveBinary()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create conversion dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin,
		"--headless",
		"--nologo",
		"--nolockcheck",
		"--nodefault",
		"--nofirststartwizard",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", apperrors.ExternalTool("conversion timed out after %s", c.cfg.Timeout)
	}
	if err != nil {
		return "", apperrors.ExternalTool("conversion failed: %s", strings.TrimSpace(string(out)))
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	pdfPath := filepath.Join(outDir, stem+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", apperrors.ExternalTool("conversion produced no output pdf")
	}
	return pdfPath, nil
}
