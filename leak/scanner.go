package leak

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/leakguard/record"
)

// Scanner binds a record source to the report builder and adds bounded
// fan-out over many documents. Individual scans stay pure; the source is the
// only shared resource and is read-only here.
type Scanner struct {
	source      record.Source
	logger      *zap.Logger
	concurrency int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithLogger sets the scanner's logger.
func WithLogger(logger *zap.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = logger }
}

// WithConcurrency bounds parallel document scans. Values below 1 fall back
// to the default of 8.
func WithConcurrency(n int) ScannerOption {
	return func(s *Scanner) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// NewScanner creates a scanner over the given record source.
func NewScanner(source record.Source, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		source:      source,
		logger:      zap.NewNop(),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "leak_scanner"))
	return s
}

// Scan builds a report for one document. With no entities named, the whole
// record set is checked; unknown entity names contribute no findings.
func (s *Scanner) Scan(ctx context.Context, document string, entities ...string) (Report, error) {
	records, err := s.loadRecords(ctx, entities)
	if err != nil {
		return Report{}, err
	}

	report := BuildReport(document, records)
	s.logger.Debug("document scanned",
		zap.Int("records", len(records)),
		zap.Int("findings", report.TotalCount),
		zap.String("severity", string(report.Severity)),
	)
	return report, nil
}

// ScanAll scans many documents concurrently against the same record set.
// Results are index-aligned with the input. The record set is loaded once;
// BuildReport is pure, so the fan-out needs no synchronization beyond the
// result slice slots.
func (s *Scanner) ScanAll(ctx context.Context, documents []string, entities ...string) ([]Report, error) {
	records, err := s.loadRecords(ctx, entities)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(documents))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, doc := range documents {
		g.Go(func() error {
			reports[i] = BuildReport(doc, records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Scanner) loadRecords(ctx context.Context, entities []string) (map[string]record.Record, error) {
	if len(entities) == 0 {
		records, err := s.source.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("load records: %w", err)
		}
		return records, nil
	}

	records := make(map[string]record.Record, len(entities))
	for _, entity := range entities {
		rec, ok, err := s.source.Get(ctx, entity)
		if err != nil {
			return nil, fmt.Errorf("load record %q: %w", entity, err)
		}
		if ok {
			records[entity] = rec
		}
	}
	return records, nil
}
