package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"pulseboard/internal/external"
)

// FileAdapter fetches tabular data from a local file path or a file-like
// URL (a static CSV/JSON document). The format is chosen by extension, with
// JSON as the fallback for unknown extensions.
type FileAdapter struct {
	base   *external.BaseClient
	logger *slog.Logger
}

// NewFileAdapter creates a FileAdapter. The BaseClient is only used when the
// source is configured with a URL instead of a local path.
func NewFileAdapter(base *external.BaseClient, logger *slog.Logger) *FileAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileAdapter{base: base, logger: logger}
}

// Fetch reads and parses the configured file. Exactly one of FilePath/URL
// must be set; violations are logged and yield an empty Table, never an
// error to the caller.
func (a *FileAdapter) Fetch(ctx context.Context, cfg SourceConfig) Table {
	switch {
	case cfg.FilePath == "" && cfg.URL == "":
		a.logger.ErrorContext(ctx, "file adapter requires file_path or url", "source_id", cfg.ID)
		return Table{}
	case cfg.FilePath != "" && cfg.URL != "":
		a.logger.ErrorContext(ctx, "file adapter accepts only one of file_path and url", "source_id", cfg.ID)
		return Table{}
	}

	var body []byte
	var name string
	if cfg.FilePath != "" {
		var err error
		body, err = os.ReadFile(cfg.FilePath)
		if err != nil {
			a.logger.ErrorContext(ctx, "failed to read source file",
				"source_id", cfg.ID, "file_path", cfg.FilePath, "error", err)
			return Table{}
		}
		name = cfg.FilePath
	} else {
		var ok bool
		body, ok = a.download(ctx, cfg)
		if !ok {
			return Table{}
		}
		name = cfg.URL
	}

	if strings.EqualFold(path.Ext(name), ".csv") {
		table, err := parseCSV(body)
		if err != nil {
			a.logger.ErrorContext(ctx, "failed to parse csv file",
				"source_id", cfg.ID, "error", err)
			return Table{}
		}
		return table
	}

	// JSON (or unknown extension): reuse the generic shape dispatch. File
	// sources never carry vendor envelopes, but classification handles them
	// uniformly if one ever does.
	env := Classify(body)
	switch env.Kind {
	case VariantVendorError, VariantVendorInfo, VariantVendorNote:
		a.logger.WarnContext(ctx, "vendor envelope in file source",
			"source_id", cfg.ID, "variant", string(env.Kind))
		return Table{}
	case VariantVendorSeries:
		return FlattenSeries(env.Object)
	case VariantList, VariantDictWithList:
		table := make(Table, 0, len(env.List))
		for _, r := range env.List {
			table = append(table, Record(r))
		}
		return table
	case VariantDict:
		return Table{Record(env.Object)}
	default:
		return Table{Record{"raw_content": env.RawText}}
	}
}

// download fetches the file body over HTTP, failing closed.
func (a *FileAdapter) download(ctx context.Context, cfg SourceConfig) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, cfg.EffectiveTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to build file request",
			"source_id", cfg.ID, "url", cfg.URL, "error", err)
		return nil, false
	}

	resp, err := a.base.Do(req)
	if err != nil {
		a.logger.ErrorContext(ctx, "file download failed",
			"source_id", cfg.ID, "url", cfg.URL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.ErrorContext(ctx, "file source returned non-success status",
			"source_id", cfg.ID, "status", resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to read file response",
			"source_id", cfg.ID, "error", err)
		return nil, false
	}
	return body, true
}

// Compile-time interface compliance check.
var _ Adapter = (*FileAdapter)(nil)
