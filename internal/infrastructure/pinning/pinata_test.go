package pinning

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinshare/internal/domain/file"
)

func newTestClient(t *testing.T, handler http.Handler) *PinataClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewPinataClient(Config{
		APIKey:     "test-key",
		SecretKey:  "test-secret",
		BaseURL:    server.URL,
		GatewayURL: "https://gateway.pinata.cloud",
		Timeout:    5 * time.Second,
	}, zerolog.Nop())
}

func stageContent(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPinFile_Success(t *testing.T) {
	var gotAPIKey, gotSecret, gotMetadata, gotOptions string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)

		gotAPIKey = r.Header.Get("pinata_api_key")
		gotSecret = r.Header.Get("pinata_secret_api_key")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotMetadata = r.FormValue("pinataMetadata")
		gotOptions = r.FormValue("pinataOptions")

		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IpfsHash":"QmResultHash","PinSize":42}`))
	}))

	path := stageContent(t, []byte("hello ipfs"))
	cid, err := client.PinFile(context.Background(), path, file.PinMetadata{Name: "hello.txt", Compressed: true})

	require.NoError(t, err)
	assert.Equal(t, "QmResultHash", cid)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "test-secret", gotSecret)
	assert.Contains(t, gotMetadata, `"name":"hello.txt"`)
	assert.Contains(t, gotMetadata, `"compressed":"true"`)
	assert.Contains(t, gotOptions, `"cidVersion":0`)
}

func TestPinFile_UpstreamErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
	}))

	path := stageContent(t, []byte("data"))
	_, err := client.PinFile(context.Background(), path, file.PinMetadata{Name: "data.bin"})
	assert.Error(t, err)
}

func TestPinFile_EmptyHashIsError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"PinSize":42}`))
	}))

	path := stageContent(t, []byte("data"))
	_, err := client.PinFile(context.Background(), path, file.PinMetadata{Name: "data.bin"})
	assert.Error(t, err)
}

func TestPinFile_NotConfigured(t *testing.T) {
	client := NewPinataClient(Config{}, zerolog.Nop())
	assert.False(t, client.Configured())

	_, err := client.PinFile(context.Background(), "nowhere", file.PinMetadata{})
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestUnpin(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.Unpin(context.Background(), "QmGone"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/pinning/unpin/QmGone", gotPath)
}

func TestUnpin_UpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not pinned", http.StatusNotFound)
	}))

	assert.Error(t, client.Unpin(context.Background(), "QmMissing"))
}

func TestGatewayURL(t *testing.T) {
	client := NewPinataClient(Config{GatewayURL: "https://gateway.pinata.cloud"}, zerolog.Nop())
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/QmHash", client.GatewayURL("QmHash"))
}
