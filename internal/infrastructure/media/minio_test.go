package media

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_RequiresSettings(t *testing.T) {
	log := zerolog.New(io.Discard)

	_, err := NewStore(Config{AccessKey: "a", SecretKey: "b", Bucket: "c"}, log)
	assert.Error(t, err)

	_, err = NewStore(Config{Endpoint: "localhost:9000", Bucket: "c"}, log)
	assert.Error(t, err)

	_, err = NewStore(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, log)
	assert.Error(t, err)
}

func TestStore_ObjectURL(t *testing.T) {
	log := zerolog.New(io.Discard)

	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "endpoint without tls",
			cfg:  Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "media"},
			want: "http://localhost:9000/media/bisafix/identity-verification/abc.png",
		},
		{
			name: "endpoint with tls",
			cfg:  Config{Endpoint: "s3.example.com", AccessKey: "a", SecretKey: "b", Bucket: "media", UseSSL: true},
			want: "https://s3.example.com/media/bisafix/identity-verification/abc.png",
		},
		{
			name: "public url override",
			cfg:  Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b", Bucket: "media", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/media/bisafix/identity-verification/abc.png",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewStore(tc.cfg, log)
			require.NoError(t, err)
			assert.Equal(t, tc.want, store.ObjectURL("bisafix/identity-verification/abc.png"))
		})
	}
}

func TestStore_ObjectURLEscapesSegments(t *testing.T) {
	store, err := NewStore(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "media"}, zerolog.New(io.Discard))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/media/a%20b/c.png", store.ObjectURL("a b/c.png"))
}
