package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/encheck/pkg/analysis"
)

// MsgpackRenderer writes the analysis report as MessagePack for IDE hosts
// that consume results over a pipe.
type MsgpackRenderer struct {
	opts Options
}

// NewMsgpackRenderer creates a new MessagePack renderer.
func NewMsgpackRenderer(opts Options) *MsgpackRenderer {
	return &MsgpackRenderer{opts: opts}
}

// Render implements Renderer.
func (r *MsgpackRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	enc := msgpack.NewEncoder(bw)
	enc.SetOmitEmpty(true)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}

// DecodeMsgpack reads a report written by MsgpackRenderer.
func DecodeMsgpack(data []byte) (*analysis.Report, error) {
	var report analysis.Report
	if err := msgpack.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return &report, nil
}
