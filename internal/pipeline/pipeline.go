// Package pipeline runs the extract step end to end: download the
// matching files of the configured bucket, then merge the CSV files.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/config"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/extract"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/merge"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/metrics"
)

// Result describes one run.
type Result struct {
	RunID    string
	Download *extract.DownloadReport
	Merge    *merge.Report
	Duration time.Duration
}

// Pipeline ties a storage backend to the local filesystem the files land in.
type Pipeline struct {
	storage extract.Storage
	fs      fs.Filesystem
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Nil keeps the default, which discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records run statistics in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New returns a Pipeline. filesystem must be the one storage writes to.
func New(storage extract.Storage, filesystem fs.Filesystem, opts ...Option) *Pipeline {
	p := &Pipeline{
		storage: storage,
		fs:      filesystem,
		logger:  zap.NewNop(),
		metrics: metrics.New(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metrics returns the collectors the pipeline records into.
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// Run downloads then merges. A download failure skips the merge. When
// cfg.Metrics.Textfile is set the metrics are written there whatever
// the outcome.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	result := &Result{RunID: p.newID()}
	logger := p.logger.With(zap.String("run_id", result.RunID))
	started := p.now()

	logger.Info("run started",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("folder", cfg.Local.Folder),
	)

	err := p.run(ctx, cfg, logger, result)

	finished := p.now()
	result.Duration = finished.Sub(started)
	p.metrics.ObserveRun(started, finished, err)

	if cfg.Metrics.Textfile != "" {
		if werr := p.metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("failed to write metrics textfile",
				zap.String("path", cfg.Metrics.Textfile),
				zap.Error(werr),
			)
		}
	}

	if err != nil {
		logger.Error("run failed",
			zap.String("code", string(errors.CodeOf(err))),
			zap.Duration("duration", result.Duration),
			zap.Error(err),
		)
		return result, err
	}

	logger.Info("run finished", zap.Duration("duration", result.Duration))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, cfg *config.Config, logger *zap.Logger, result *Result) error {
	download, err := p.Download(ctx, cfg.Storage.Bucket, cfg.Local.Folder, logger)
	result.Download = download
	if err != nil {
		return err
	}

	report, err := p.Merge(ctx, cfg.Local.Folder, cfg.Merge.Output, logger)
	result.Merge = report
	return err
}

// Download runs only the download half and records its metrics.
func (p *Pipeline) Download(
	ctx context.Context,
	bucket, folder string,
	logger *zap.Logger,
) (*extract.DownloadReport, error) {
	if logger == nil {
		logger = p.logger
	}

	extractor := extract.New(p.storage,
		extract.WithLogger(logger),
		extract.WithProgress(func(string) s3types.ProgressTracker {
			return &byteCounter{counter: p.metrics.BytesDownloaded}
		}),
	)

	report, err := extractor.Download(ctx, bucket, folder)
	if report != nil {
		p.metrics.ObjectsListed.Add(float64(report.Listed))
		p.metrics.ObjectsMatched.Add(float64(len(report.Matched)))
		p.metrics.ObjectsDownloaded.Add(float64(len(report.Files)))
	}
	return report, err
}

// byteCounter adds one transfer's bytes to counter as they arrive, so a
// failed download still counts what it wrote.
type byteCounter struct {
	counter prometheus.Counter
	seen    int64
}

func (b *byteCounter) Update(transferred, _ int64) {
	if delta := transferred - b.seen; delta > 0 {
		b.counter.Add(float64(delta))
		b.seen = transferred
	}
}

func (b *byteCounter) Complete() {}

func (b *byteCounter) Error(error) {}

// Merge runs only the merge half and records its metrics.
func (p *Pipeline) Merge(
	ctx context.Context,
	folder, output string,
	logger *zap.Logger,
) (*merge.Report, error) {
	if logger == nil {
		logger = p.logger
	}

	opts := []merge.Option{merge.WithLogger(logger)}
	if output != "" {
		opts = append(opts, merge.WithOutput(output))
	}

	report, err := merge.New(p.fs, opts...).Combine(ctx, folder)
	if report != nil {
		p.metrics.FilesMerged.Add(float64(len(report.Merged)))
		p.metrics.FilesSkipped.Add(float64(len(report.Skipped)))
		p.metrics.RowsWritten.Add(float64(report.Rows))
	}
	return report, err
}
