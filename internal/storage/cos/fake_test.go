package cos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/ovsx/storage/internal/storage"
)

type fakeObject struct {
	data []byte
	meta storage.Metadata
}

type fakeUpload struct {
	key       string
	meta      storage.Metadata
	parts     map[int][]byte
	initiated time.Time
}

// fakeAPI is an in-memory bucket. fail, when set, is consulted before every
// call and its error is returned as-is.
type fakeAPI struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	uploads map[string]*fakeUpload
	nextID  int
	calls   []string
	aborted []string
	fail    func(op, key string) error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		objects: map[string]fakeObject{},
		uploads: map[string]*fakeUpload{},
	}
}

func noSuchKey(key string) error {
	return minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist.", Key: key, StatusCode: 404}
}

func (f *fakeAPI) record(op, key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op+" "+key)
	fail := f.fail
	f.mu.Unlock()
	if fail != nil {
		return fail(op, key)
	}
	return nil
}

func (f *fakeAPI) countCalls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

func (f *fakeAPI) object(key string) (fakeObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[key]
	return o, ok
}

func (f *fakeAPI) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{data: data}
}

func (f *fakeAPI) PutObject(_ context.Context, key string, r io.Reader, size int64, meta storage.Metadata) error {
	if err := f.record("put", key); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("short body: %d != %d", len(data), size)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{data: data, meta: meta}
	return nil
}

func (f *fakeAPI) NewMultipartUpload(_ context.Context, key string, meta storage.Metadata) (string, error) {
	if err := f.record("initiate", key); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("upload-%d", f.nextID)
	f.uploads[id] = &fakeUpload{key: key, meta: meta, parts: map[int][]byte{}, initiated: time.Now()}
	return id, nil
}

func (f *fakeAPI) PutObjectPart(_ context.Context, key, uploadID string, number int, r io.Reader, size int64) (Part, error) {
	if err := f.record(fmt.Sprintf("part-%d", number), key); err != nil {
		return Part{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Part{}, err
	}
	if int64(len(data)) != size {
		return Part{}, fmt.Errorf("short part: %d != %d", len(data), size)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[uploadID]
	if !ok {
		return Part{}, minio.ErrorResponse{Code: "NoSuchUpload", StatusCode: 404}
	}
	u.parts[number] = data
	return Part{Number: number, ETag: fmt.Sprintf("etag-%d", number)}, nil
}

func (f *fakeAPI) CompleteMultipartUpload(_ context.Context, key, uploadID string, parts []Part) error {
	if err := f.record("complete", key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[uploadID]
	if !ok {
		return minio.ErrorResponse{Code: "NoSuchUpload", StatusCode: 404}
	}
	if !sort.SliceIsSorted(parts, func(i, j int) bool { return parts[i].Number < parts[j].Number }) {
		return minio.ErrorResponse{Code: "InvalidPartOrder", StatusCode: 400}
	}
	var buf bytes.Buffer
	for _, p := range parts {
		data, ok := u.parts[p.Number]
		if !ok || p.ETag != fmt.Sprintf("etag-%d", p.Number) {
			return minio.ErrorResponse{Code: "InvalidPart", StatusCode: 400}
		}
		buf.Write(data)
	}
	f.objects[u.key] = fakeObject{data: buf.Bytes(), meta: u.meta}
	delete(f.uploads, uploadID)
	return nil
}

func (f *fakeAPI) AbortMultipartUpload(_ context.Context, key, uploadID string) error {
	if err := f.record("abort", key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.uploads, uploadID)
	f.aborted = append(f.aborted, uploadID)
	return nil
}

func (f *fakeAPI) GetObject(_ context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	if err := f.record("get", key); err != nil {
		return nil, err
	}
	o, ok := f.object(key)
	if !ok {
		return nil, noSuchKey(key)
	}
	data := o.data[offset:]
	if length >= 0 {
		data = data[:length]
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeAPI) StatObject(_ context.Context, key string) (int64, error) {
	if err := f.record("stat", key); err != nil {
		return 0, err
	}
	o, ok := f.object(key)
	if !ok {
		return 0, noSuchKey(key)
	}
	return int64(len(o.data)), nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, key string) error {
	if err := f.record("remove", key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return noSuchKey(key)
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeAPI) CopyObject(_ context.Context, srcKey, dstKey string) error {
	if err := f.record("copy", srcKey); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[srcKey]
	if !ok {
		return noSuchKey(srcKey)
	}
	f.objects[dstKey] = o
	return nil
}

func (f *fakeAPI) ListIncompleteUploads(_ context.Context, prefix string) ([]IncompleteUpload, error) {
	if err := f.record("list", prefix); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []IncompleteUpload
	for id, u := range f.uploads {
		if strings.HasPrefix(u.key, prefix) {
			out = append(out, IncompleteUpload{Key: u.key, UploadID: id, Initiated: u.initiated})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadID < out[j].UploadID })
	return out, nil
}

func (f *fakeAPI) addUpload(key string, initiated time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("upload-%d", f.nextID)
	f.uploads[id] = &fakeUpload{key: key, parts: map[int][]byte{}, initiated: initiated}
	return id
}
