package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.headers[r.URL.Path] = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, headers: map[string]http.Header{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: aws.AnonymousCredentials{},
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(server.URL)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return NewS3Store(client, "logos-bucket", "us-east-1", ""), fake
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	store, fake := newTestS3Store(t)

	url, err := store.Put(ctx, "logos/cs_1/logo.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://logos-bucket.s3.us-east-1.amazonaws.com/logos/cs_1/logo.png", url)

	path := "/logos-bucket/logos/cs_1/logo.png"
	assert.Equal(t, []byte("png-bytes"), fake.objects[path])
	assert.Equal(t, "public-read", fake.headers[path].Get("X-Amz-Acl"))
	assert.Equal(t, "image/png", fake.headers[path].Get("Content-Type"))

	ok, err := store.Exists(ctx, "logos/cs_1/logo.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "logos/cs_1/logo.svg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "logos/cs_1/logo.png"))
	assert.NotContains(t, fake.objects, path)
}

func TestS3Store_CustomBaseURL(t *testing.T) {
	store := NewS3Store(nil, "b", "eu-west-1", "https://cdn.logogen.test")
	assert.Equal(t, "https://cdn.logogen.test/logos/x/logo.jpg", store.URL("logos/x/logo.jpg"))
}

func TestGCSStore_URL(t *testing.T) {
	store := NewGCSStore(nil, "logogen.appspot.com")
	assert.Equal(t, "https://storage.googleapis.com/logogen.appspot.com/logos/cs_1/logo.svg", store.URL("logos/cs_1/logo.svg"))
}

func TestDirStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewDirStore(root, "http://localhost:8080/files/")
	require.NoError(t, err)

	url, err := store.Put(ctx, "logos/cs_1/logo.svg", []byte("<svg/>"), "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/logos/cs_1/logo.svg", url)

	data, err := os.ReadFile(filepath.Join(root, "logos", "cs_1", "logo.svg"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	ok, err := store.Exists(ctx, "logos/cs_1/logo.svg")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("keys cannot escape the root", func(t *testing.T) {
		_, err := store.Put(ctx, "../../outside.txt", []byte("x"), "text/plain")
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(root, "outside.txt"))
		assert.NoError(t, statErr)
		entries, _ := os.ReadDir(filepath.Dir(root))
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), "outside"))
		}
	})

	require.NoError(t, store.Delete(ctx, "logos/cs_1/logo.svg"))
	require.NoError(t, store.Delete(ctx, "logos/cs_1/logo.svg"), "deleting twice is fine")
	ok, err = store.Exists(ctx, "logos/cs_1/logo.svg")
	require.NoError(t, err)
	assert.False(t, ok)
}
