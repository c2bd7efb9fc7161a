package convert

import (
	"context"
	"path/filepath"
)

// RunBatch converts inputs one after another and returns one outcome per
// input, in input order. A failing item never stops the batch.
//
// A Progress is sent on updates before each item starts; updates may be
// nil. If ctx is cancelled the remaining items are recorded as failed with
// the context error.
func (c *Converter) RunBatch(ctx context.Context, inputs []string, formatID FormatID, outputDir string, opts Options, updates chan<- Progress) []Outcome {
	outcomes := make([]Outcome, 0, len(inputs))
	total := len(inputs)

	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Input: input, Err: err})
			continue
		}

		notify(ctx, updates, Progress{Current: i + 1, Total: total, File: filepath.Base(input)})

		c.logger.Debug("converting", "current", i+1, "total", total, "input", input, "format", formatID)
		output, err := c.ConvertOne(ctx, input, formatID, outputDir, opts)
		if err != nil {
			c.logger.Warn("conversion failed", "input", input, "err", err)
			outcomes = append(outcomes, Outcome{Input: input, Err: err})
			continue
		}
		c.logger.Debug("converted", "input", input, "output", output)
		outcomes = append(outcomes, Outcome{Input: input, Output: output})
	}

	return outcomes
}

// notify delivers p unless nobody listens or ctx is done. Delivery problems
// are not item failures.
func notify(ctx context.Context, updates chan<- Progress, p Progress) {
	if updates == nil {
		return
	}
	select {
	case updates <- p:
	case <-ctx.Done():
	}
}
