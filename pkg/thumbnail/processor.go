package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/filemanager/pkg/blob"
	"github.com/dmitrymomot/filemanager/pkg/files"
	"github.com/dmitrymomot/filemanager/pkg/logger"
	"github.com/dmitrymomot/filemanager/pkg/queue"
)

// NodeFinder loads an owned file node.
type NodeFinder interface {
	FindOwned(ctx context.Context, id, ownerID string) (*files.FileNode, error)
}

// Processor renders and stores the derivatives of one image per job.
type Processor struct {
	nodes    NodeFinder
	blobs    blob.Storage
	renderer Renderer
	widths   []int
	logger   *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRenderer replaces the default ScaleRenderer.
func WithRenderer(r Renderer) ProcessorOption {
	return func(p *Processor) {
		if r != nil {
			p.renderer = r
		}
	}
}

// WithProcessorLogger sets the logger.
func WithProcessorLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor creates a processor rendering the given widths.
func NewProcessor(nodes NodeFinder, blobs blob.Storage, widths []int, opts ...ProcessorOption) *Processor {
	if len(widths) == 0 {
		widths = files.DefaultDerivativeWidths
	}

	p := &Processor{
		nodes:    nodes,
		blobs:    blobs,
		renderer: NewScaleRenderer(),
		widths:   slices.Clone(widths),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("thumbnail.processor"))
	return p
}

// Handler exposes the processor as a queue handler for DerivativeJob.
func (p *Processor) Handler() queue.Handler {
	return queue.NewTaskHandler(p.Handle)
}

// Handle renders all widths for the job's image. Widths already stored by an
// earlier attempt are skipped. Malformed jobs, non-image nodes, oversized or
// undecodable images and renderer panics fail permanently; everything else is
// left to the queue's retries.
func (p *Processor) Handle(ctx context.Context, job DerivativeJob) error {
	if err := job.Validate(); err != nil {
		p.logger.ErrorContext(ctx, "invalid derivative job", logger.Error(err))
		return queue.Permanent(err)
	}

	node, err := p.nodes.FindOwned(ctx, job.FileID, job.UserID)
	if errors.Is(err, files.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, job.FileID)
	}
	if err != nil {
		return err
	}
	if node.Kind != files.KindImage {
		return queue.Permanent(fmt.Errorf("%w: %s", ErrNotAnImage, node.ID))
	}

	original, err := p.blobs.Get(ctx, node.LocalPath)
	if err != nil {
		return fmt.Errorf("read original %s: %w", node.ID, err)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, width := range p.widths {
		key := files.DerivativeKey(node.ID, width)
		if p.blobs.Exists(ctx, p.blobs.Locate(key)) {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s at %d: %v", ErrRenderPanic, node.ID, width, r)
				}
			}()

			out, err := p.renderer.Render(original, width)
			if err != nil {
				return fmt.Errorf("render %s at %d: %w", node.ID, width, err)
			}
			if _, err := p.blobs.Put(gctx, key, out); err != nil {
				return fmt.Errorf("store %s at %d: %w", node.ID, width, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrRenderPanic) {
			p.logger.ErrorContext(ctx, "derivative rendering failed",
				logger.FileID(node.ID),
				logger.Error(err))
			return queue.Permanent(err)
		}
		return err
	}

	p.logger.InfoContext(ctx, "derivatives rendered",
		logger.FileID(node.ID),
		slog.Any("widths", p.widths),
		logger.Duration(time.Since(start)))
	return nil
}
