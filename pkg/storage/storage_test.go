package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/pkg/storage"
)

func TestResolve(t *testing.T) {
	disk := storage.NewLocalDisk(t.TempDir(), "http://cdn.test/storage/")
	ctx := context.Background()

	assert.Equal(t, "https://img.test/a.jpg", storage.Resolve(ctx, disk, "https://img.test/a.jpg"))
	assert.Equal(t, "http://cdn.test/storage/products/a.jpg", storage.Resolve(ctx, disk, "/products/a.jpg"))
	assert.Equal(t, "", storage.Resolve(ctx, disk, "  "))
	assert.Equal(t, "products/a.jpg", storage.Resolve(ctx, nil, "products/a.jpg"))
}

func TestLocalDiskPutExistsAndServe(t *testing.T) {
	disk := storage.NewLocalDisk(t.TempDir(), "/storage")
	ctx := context.Background()

	ok, err := disk.Exists(ctx, "products/dress.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, disk.Put(ctx, "products/dress.jpg", strings.NewReader("jpeg"), "image/jpeg"))
	ok, err = disk.Exists(ctx, "products/dress.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	rec := httptest.NewRecorder()
	disk.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/dress.jpg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())

	assert.Error(t, disk.Put(ctx, "../escape.txt", strings.NewReader("x"), ""))
}

func TestS3DiskAgainstFakeEndpoint(t *testing.T) {
	var mu sync.Mutex
	objects := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = string(body)
			w.WriteHeader(http.StatusOK)
		case http.MethodHead:
			if _, ok := objects[r.URL.Path]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	disk, err := storage.NewS3Disk(ctx, storage.S3Config{
		Bucket:   "butik",
		Region:   "eu-north-1",
		Key:      "test",
		Secret:   "secret",
		Endpoint: srv.URL,
	})
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "products/a.jpg", strings.NewReader("img"), "image/jpeg"))
	mu.Lock()
	assert.Contains(t, objects["/butik/products/a.jpg"], "img")
	mu.Unlock()

	ok, err := disk.Exists(ctx, "products/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = disk.Exists(ctx, "products/missing.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, srv.URL+"/butik/products/a.jpg", disk.URL(ctx, "products/a.jpg"))
}

func TestS3DiskPresignedURL(t *testing.T) {
	disk, err := storage.NewS3Disk(context.Background(), storage.S3Config{
		Bucket:     "butik",
		Region:     "eu-north-1",
		Key:        "AKIDEXAMPLE",
		Secret:     "secret",
		PresignTTL: 10 * time.Minute,
	})
	require.NoError(t, err)

	url := disk.URL(context.Background(), "products/a.jpg")
	assert.True(t, strings.HasPrefix(url, "https://butik.s3.eu-north-1.amazonaws.com/products/a.jpg?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=600")
}

func TestS3RequiresBucket(t *testing.T) {
	_, err := storage.NewS3Disk(context.Background(), storage.S3Config{})
	assert.Error(t, err)
}
