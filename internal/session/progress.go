package session

import (
	"context"
	"io"
)

// progressReader counts bytes through an io.Reader and reports the running
// total between chunks. It also checks the context before each chunk, which
// bounds cancellation latency to one chunk of I/O.
type progressReader struct {
	ctx      context.Context
	r        io.Reader
	total    int64
	progress func(int64)
}

func newProgressReader(ctx context.Context, r io.Reader, start int64, progress func(int64)) *progressReader {
	return &progressReader{ctx: ctx, r: r, total: start, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(buf)
	if n > 0 {
		p.total += int64(n)
		if p.progress != nil {
			p.progress(p.total)
		}
	}
	return n, err
}

// progressWriter is the write-side twin of progressReader, used on
// downloads where the remote side drives the copy.
type progressWriter struct {
	ctx      context.Context
	w        io.Writer
	total    int64
	progress func(int64)
}

func newProgressWriter(ctx context.Context, w io.Writer, start int64, progress func(int64)) *progressWriter {
	return &progressWriter{ctx: ctx, w: w, total: start, progress: progress}
}

func (p *progressWriter) Write(buf []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.w.Write(buf)
	if n > 0 {
		p.total += int64(n)
		if p.progress != nil {
			p.progress(p.total)
		}
	}
	return n, err
}
