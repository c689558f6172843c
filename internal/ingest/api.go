package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"pulseboard/internal/external"
)

// maxResponseBytes caps how much of an upstream body is read. Noisy vendors
// must not be able to balloon memory on the ingest path.
const maxResponseBytes = 8 << 20

// APIAdapter fetches tabular data from REST endpoints. All requests go
// through the shared BaseClient so they inherit circuit breaking, retries,
// and timeout mapping.
type APIAdapter struct {
	base   *external.BaseClient
	logger *slog.Logger
}

// NewAPIAdapter creates an APIAdapter backed by the given BaseClient.
func NewAPIAdapter(base *external.BaseClient, logger *slog.Logger) *APIAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIAdapter{base: base, logger: logger}
}

// Fetch obtains a tabular result from cfg.URL. It fails closed: any
// transport failure, non-2xx status, or unrecognized payload shape is logged
// and yields an empty Table.
func (a *APIAdapter) Fetch(ctx context.Context, cfg SourceConfig) Table {
	if cfg.URL == "" {
		a.logger.ErrorContext(ctx, "api adapter requires a url", "source_id", cfg.ID)
		return Table{}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.EffectiveTimeout())
	defer cancel()

	req, err := a.buildRequest(ctx, cfg)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to build source request",
			"source_id", cfg.ID, "url", cfg.URL, "error", err)
		return Table{}
	}

	resp, err := a.base.Do(req)
	if err != nil {
		a.logger.ErrorContext(ctx, "source fetch failed",
			"source_id", cfg.ID, "url", cfg.URL, "error", err)
		return Table{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.ErrorContext(ctx, "source returned non-success status",
			"source_id", cfg.ID, "url", cfg.URL, "status", resp.StatusCode)
		return Table{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to read source response",
			"source_id", cfg.ID, "error", err)
		return Table{}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/csv" || mediaType == "application/csv" {
		table, err := parseCSV(body)
		if err != nil {
			a.logger.ErrorContext(ctx, "failed to parse csv response",
				"source_id", cfg.ID, "error", err)
			return Table{}
		}
		return table
	}

	// Everything else: attempt JSON decode first; Classify falls back to a
	// raw-text record when the body is not JSON.
	return a.tabulate(ctx, cfg, Classify(body))
}

// tabulate converts a classified envelope into a Table. Vendor envelopes are
// handled before generic extraction: sentinel notices are logged on their
// respective channels and yield an empty result, time-series payloads are
// flattened by the dedicated decoder.
func (a *APIAdapter) tabulate(ctx context.Context, cfg SourceConfig, env Envelope) Table {
	switch env.Kind {
	case VariantVendorError:
		a.logger.ErrorContext(ctx, "vendor reported error",
			"source_id", cfg.ID, "message", env.Message)
		return Table{}
	case VariantVendorNote:
		a.logger.WarnContext(ctx, "vendor rate-limit note",
			"source_id", cfg.ID, "message", env.Message)
		return Table{}
	case VariantVendorInfo:
		a.logger.InfoContext(ctx, "vendor informational notice",
			"source_id", cfg.ID, "message", env.Message)
		return Table{}
	case VariantVendorSeries:
		return FlattenSeries(env.Object)
	}

	// data_key extraction applies only to generic dict shapes, after the
	// vendor dispatch above.
	if cfg.DataKey != "" && env.Object != nil {
		if sub, ok := env.Object[cfg.DataKey]; ok {
			env = classifyValue(sub, "")
		}
	}

	switch env.Kind {
	case VariantList, VariantDictWithList:
		table := make(Table, 0, len(env.List))
		for _, r := range env.List {
			table = append(table, Record(r))
		}
		return table
	case VariantDict:
		return Table{Record(env.Object)}
	case VariantRawText:
		return Table{Record{"raw_content": env.RawText}}
	default:
		a.logger.ErrorContext(ctx, "unrecognized payload shape",
			"source_id", cfg.ID, "variant", string(env.Kind))
		return Table{}
	}
}

// buildRequest assembles the outbound request: method, sanitized query
// parameters, headers, and an optional JSON body for POST.
func (a *APIAdapter) buildRequest(ctx context.Context, cfg SourceConfig) (*http.Request, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if cfg.Body != nil {
		encoded, err := json.Marshal(cfg.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL, body)
	if err != nil {
		return nil, err
	}

	if len(cfg.Params) > 0 {
		q := req.URL.Query()
		for k, v := range SanitizeParams(cfg.Params) {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if cfg.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// SanitizeParams stringifies non-string scalar query parameters: booleans
// become lowercase "true"/"false", numbers their decimal form. Nil-valued
// parameters are dropped entirely, not sent as empty strings.
func SanitizeParams(params map[string]any) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case int:
			out[k] = strconv.Itoa(val)
		case int64:
			out[k] = strconv.FormatInt(val, 10)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// Compile-time interface compliance check.
var _ Adapter = (*APIAdapter)(nil)
