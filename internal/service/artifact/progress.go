package artifact

import (
	"context"

	"github.com/oshokin/mc-bootstrap/internal/logger"
)

const (
	// progressStepPercent is the granularity of progress logs when the size is known.
	progressStepPercent = 10
	// progressStepBytes is the granularity of progress logs when the size is unknown.
	progressStepBytes = 8 << 20
)

// progressWriter counts written bytes and logs download progress in steps.
type progressWriter struct {
	ctx     context.Context //nolint:containedctx // Only used for logging.
	name    string
	total   int64
	written int64
	next    int64
}

func newProgressWriter(ctx context.Context, name string, total int64) *progressWriter {
	p := &progressWriter{
		ctx:   ctx,
		name:  name,
		total: total,
	}
	p.next = p.step()

	return p
}

// Write implements io.Writer.
func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))

	for p.written >= p.next && p.next > 0 {
		if p.total > 0 {
			logger.Infof(p.ctx, "Downloading %s: %d%% (%d/%d bytes)",
				p.name, p.written*100/p.total, p.written, p.total)
		} else {
			logger.Infof(p.ctx, "Downloading %s: %d bytes", p.name, p.written)
		}

		p.next += p.step()
	}

	return len(b), nil
}

func (p *progressWriter) step() int64 {
	if p.total <= 0 {
		return progressStepBytes
	}

	step := p.total * progressStepPercent / 100
	if step == 0 {
		return p.total
	}

	return step
}
