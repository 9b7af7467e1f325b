package thumbnail_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/blob"
	"github.com/dmitrymomot/filemanager/pkg/files"
	"github.com/dmitrymomot/filemanager/pkg/logger"
	"github.com/dmitrymomot/filemanager/pkg/queue"
	"github.com/dmitrymomot/filemanager/pkg/thumbnail"
)

type processorFixture struct {
	svc   *files.Service
	blobs *blob.LocalStorage
	proc  *thumbnail.Processor
}

func newProcessorFixture(t *testing.T, opts ...thumbnail.ProcessorOption) processorFixture {
	t.Helper()
	blobs, err := blob.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	repo := files.NewMemoryRepository()
	svc := files.NewService(repo, blobs, files.WithLogger(logger.Discard()))
	opts = append([]thumbnail.ProcessorOption{thumbnail.WithProcessorLogger(logger.Discard())}, opts...)
	proc := thumbnail.NewProcessor(repo, blobs, []int{100, 50}, opts...)

	return processorFixture{svc: svc, blobs: blobs, proc: proc}
}

func TestProcessor_Handle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newProcessorFixture(t)

	node, err := f.svc.Upload(ctx, files.UploadInput{
		OwnerID: "u1",
		Name:    "photo.png",
		Kind:    files.KindImage,
		Data:    base64.StdEncoding.EncodeToString(encodePNG(t, 200, 100)),
	})
	require.NoError(t, err)

	require.NoError(t, f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: node.ID}))

	for _, width := range []int{100, 50} {
		assert.True(t, f.blobs.Exists(ctx, f.blobs.Locate(files.DerivativeKey(node.ID, width))))
	}
	assert.False(t, f.blobs.Exists(ctx, f.blobs.Locate(files.DerivativeKey(node.ID, 500))))
}

func TestProcessor_HandleErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newProcessorFixture(t)

	doc, err := f.svc.Upload(ctx, files.UploadInput{
		OwnerID: "u1", Name: "doc.json", Kind: files.KindFile,
		Data: base64.StdEncoding.EncodeToString([]byte(`{}`)),
	})
	require.NoError(t, err)

	broken, err := f.svc.Upload(ctx, files.UploadInput{
		OwnerID: "u1", Name: "broken.png", Kind: files.KindImage,
		Data: base64.StdEncoding.EncodeToString([]byte("definitely not a png")),
	})
	require.NoError(t, err)

	t.Run("invalid job is permanent", func(t *testing.T) {
		err := f.proc.Handle(ctx, thumbnail.DerivativeJob{FileID: doc.ID})
		assert.ErrorIs(t, err, thumbnail.ErrMissingUserID)
		assert.True(t, queue.IsPermanent(err))
	})

	t.Run("unknown file is retryable", func(t *testing.T) {
		err := f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: "nonexistent"})
		assert.ErrorIs(t, err, thumbnail.ErrFileNotFound)
		assert.False(t, queue.IsPermanent(err))
	})

	t.Run("other owner looks like unknown file", func(t *testing.T) {
		err := f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u2", FileID: doc.ID})
		assert.ErrorIs(t, err, thumbnail.ErrFileNotFound)
	})

	t.Run("non image is permanent", func(t *testing.T) {
		err := f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: doc.ID})
		assert.ErrorIs(t, err, thumbnail.ErrNotAnImage)
		assert.True(t, queue.IsPermanent(err))
	})

	t.Run("undecodable image is permanent", func(t *testing.T) {
		err := f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: broken.ID})
		assert.ErrorIs(t, err, thumbnail.ErrUnsupportedFormat)
		assert.True(t, queue.IsPermanent(err))
	})
}

func TestProcessor_HandlerDecodesPayload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newProcessorFixture(t)

	node, err := f.svc.Upload(ctx, files.UploadInput{
		OwnerID: "u1", Name: "photo.png", Kind: files.KindImage,
		Data: base64.StdEncoding.EncodeToString(encodePNG(t, 60, 60)),
	})
	require.NoError(t, err)

	payload, err := json.Marshal(thumbnail.DerivativeJob{UserID: "u1", FileID: node.ID})
	require.NoError(t, err)

	h := f.proc.Handler()
	require.NoError(t, h.Handle(ctx, payload))
	assert.True(t, f.blobs.Exists(ctx, f.blobs.Locate(files.DerivativeKey(node.ID, 50))))

	err = h.Handle(ctx, []byte(`{broken`))
	assert.True(t, queue.IsPermanent(err))
}

type panicRenderer struct{}

func (panicRenderer) Render([]byte, int) ([]byte, error) {
	panic("boom")
}

type countingRenderer struct {
	mu     sync.Mutex
	widths []int
}

func (r *countingRenderer) Render(_ []byte, width int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widths = append(r.widths, width)
	return []byte("derivative"), nil
}

func uploadImage(t *testing.T, f processorFixture, data []byte) *files.FileNode {
	t.Helper()
	node, err := f.svc.Upload(context.Background(), files.UploadInput{
		OwnerID: "u1", Name: "photo.png", Kind: files.KindImage,
		Data: base64.StdEncoding.EncodeToString(data),
	})
	require.NoError(t, err)
	return node
}

func TestProcessor_OversizedImageIsPermanent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newProcessorFixture(t)
	node := uploadImage(t, f, pngHeader(t, 20_000, 20_000))

	err := f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: node.ID})
	assert.ErrorIs(t, err, thumbnail.ErrImageTooLarge)
	assert.True(t, queue.IsPermanent(err))
	assert.False(t, f.blobs.Exists(ctx, f.blobs.Locate(files.DerivativeKey(node.ID, 100))))
}

func TestProcessor_TallImageStaysSmall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newProcessorFixture(t)
	node := uploadImage(t, f, encodePNG(t, 1, 2000))

	require.NoError(t, f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: node.ID}))

	out, err := f.blobs.Get(ctx, f.blobs.Locate(files.DerivativeKey(node.ID, 100)))
	require.NoError(t, err)
	cfg := decodeConfig(t, out)
	assert.Equal(t, 1, cfg.Width)
	assert.Equal(t, 2000, cfg.Height)
}

func TestProcessor_RendererPanicIsPermanent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newProcessorFixture(t, thumbnail.WithRenderer(panicRenderer{}))
	node := uploadImage(t, f, encodePNG(t, 20, 20))

	var err error
	assert.NotPanics(t, func() {
		err = f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: node.ID})
	})
	assert.ErrorIs(t, err, thumbnail.ErrRenderPanic)
	assert.True(t, queue.IsPermanent(err))
}

func TestProcessor_SkipsStoredDerivatives(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := &countingRenderer{}
	f := newProcessorFixture(t, thumbnail.WithRenderer(r))
	node := uploadImage(t, f, encodePNG(t, 20, 20))

	_, err := f.blobs.Put(ctx, files.DerivativeKey(node.ID, 100), []byte("earlier attempt"))
	require.NoError(t, err)

	require.NoError(t, f.proc.Handle(ctx, thumbnail.DerivativeJob{UserID: "u1", FileID: node.ID}))
	assert.Equal(t, []int{50}, r.widths)

	stored, err := f.blobs.Get(ctx, f.blobs.Locate(files.DerivativeKey(node.ID, 100)))
	require.NoError(t, err)
	assert.Equal(t, "earlier attempt", string(stored))
}
