package cos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ovsx/storage/internal/storage"
)

// transferer decides between single-request and multipart transfers and runs
// parts on the shared pool.
type transferer struct {
	client    *Client
	pool      *pool
	threshold int64
	partSize  int64
	logger    *slog.Logger
}

type keyPair struct {
	src, dst string
}

// upload stores meta.ContentLength bytes of src under key.
func (t *transferer) upload(ctx context.Context, key string, src io.ReaderAt, meta storage.Metadata) error {
	size := meta.ContentLength
	if size < t.threshold || size == 0 {
		return t.client.Put(ctx, key, io.NewSectionReader(src, 0, size), meta)
	}

	uploadID, err := t.client.NewMultipartUpload(ctx, key, meta)
	if err != nil {
		return err
	}
	count := int((size + t.partSize - 1) / t.partSize)
	t.logger.Debug("multipart upload",
		slog.String("key", key), slog.Int64("size", size), slog.Int("parts", count))

	parts := make([]Part, count)
	g := t.pool.newGroup(ctx)
	for i := 0; i < count; i++ {
		i := i
		offset := int64(i) * t.partSize
		length := min(t.partSize, size-offset)
		if !g.Go(func(ctx context.Context) error {
			p, err := t.client.PutPart(ctx, key, uploadID, i+1, io.NewSectionReader(src, offset, length), length)
			if err != nil {
				return err
			}
			parts[i] = p
			return nil
		}) {
			break
		}
	}
	if err := g.Wait(); err != nil {
		if abortErr := t.client.AbortMultipartUpload(context.WithoutCancel(ctx), key, uploadID); abortErr != nil {
			t.logger.Warn("abort multipart upload failed",
				slog.String("key", key), slog.String("upload_id", uploadID), slog.Any("error", abortErr))
		}
		return classify("upload", key, err)
	}
	return t.client.CompleteMultipartUpload(ctx, key, uploadID, parts)
}

// download writes the object at key into dst, which must be empty.
func (t *transferer) download(ctx context.Context, key string, dst *os.File) error {
	size, err := t.client.Stat(ctx, key)
	if err != nil {
		return err
	}
	if size < t.threshold {
		body, err := t.client.Get(ctx, key, 0, -1)
		if err != nil {
			return err
		}
		defer body.Close()
		w := &localWriter{w: dst}
		if _, err := io.Copy(w, body); err != nil {
			if w.err != nil {
				return storage.NewError("download", key, storage.KindLocalIO, w.err)
			}
			return storage.NewError("download", key, storage.KindTransport, err)
		}
		return nil
	}

	g := t.pool.newGroup(ctx)
	for offset := int64(0); offset < size; offset += t.partSize {
		offset := offset
		length := min(t.partSize, size-offset)
		if !g.Go(func(ctx context.Context) error {
			return t.downloadRange(ctx, key, dst, offset, length)
		}) {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return classify("download", key, err)
	}
	return nil
}

func (t *transferer) downloadRange(ctx context.Context, key string, dst *os.File, offset, length int64) error {
	body, err := t.client.Get(ctx, key, offset, length)
	if err != nil {
		return err
	}
	defer body.Close()
	buf := make([]byte, length)
	if _, err := io.ReadFull(body, buf); err != nil {
		return storage.NewError(fmt.Sprintf("download range %d", offset), key, storage.KindTransport, err)
	}
	if _, err := dst.WriteAt(buf, offset); err != nil {
		return storage.NewError(fmt.Sprintf("download range %d", offset), key, storage.KindLocalIO, err)
	}
	return nil
}

// copyAll issues a server-side copy for every pair according to policy.
func (t *transferer) copyAll(ctx context.Context, pairs []keyPair, policy storage.CopyPolicy) error {
	if policy != storage.CopyContinueOnError {
		for _, p := range pairs {
			if err := t.client.Copy(ctx, p.src, p.dst); err != nil {
				return err
			}
			t.logger.Info("copied object", slog.String("source", p.src), slog.String("target", p.dst))
		}
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	for _, p := range pairs {
		p := p
		wg.Add(1)
		err := t.pool.submit(ctx, func() {
			defer wg.Done()
			if err := t.client.Copy(ctx, p.src, p.dst); err != nil {
				record(err)
				return
			}
			t.logger.Info("copied object", slog.String("source", p.src), slog.String("target", p.dst))
		})
		if err != nil {
			wg.Done()
			record(classify("copy", p.src+" -> "+p.dst, err))
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}

// localWriter remembers write errors so they can be told apart from read errors.
type localWriter struct {
	w   io.Writer
	err error
}

func (l *localWriter) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	if err != nil {
		l.err = err
	}
	return n, err
}
