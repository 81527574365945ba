package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printshop/internal/config"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{name: "bare host keeps flag", raw: "minio:9000", useSSL: false, wantHost: "minio:9000"},
		{name: "bare host with ssl", raw: "s3.example.com/", useSSL: true, wantHost: "s3.example.com", wantSecure: true},
		{name: "https url", raw: "https://s3.domainesia.com", useSSL: false, wantHost: "s3.domainesia.com", wantSecure: true},
		{name: "http url", raw: "http://localhost:9000", useSSL: true, wantHost: "localhost:9000"},
		{name: "unsupported scheme", raw: "ftp://files.example.com", wantErr: true},
		{name: "missing host", raw: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := parseEndpoint(tt.raw, tt.useSSL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}

func TestPublicURL(t *testing.T) {
	t.Run("configured base", func(t *testing.T) {
		m := &minioStorage{publicBase: publicBase("https://cdn.example.com/", "s3.example.com", true, "shop")}
		assert.Equal(t, "https://cdn.example.com/orders/o1/a.png", m.PublicURL("orders/o1/a.png"))
	})

	t.Run("path-style fallback", func(t *testing.T) {
		m := &minioStorage{publicBase: publicBase("", "s3.example.com", true, "shop")}
		assert.Equal(t, "https://s3.example.com/shop/home-banners/b.jpg", m.PublicURL("/home-banners/b.jpg"))
	})

	t.Run("plain http fallback", func(t *testing.T) {
		assert.Equal(t, "http://localhost:9000/shop", publicBase("", "localhost:9000", false, "shop"))
	})
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		msg  string
	}{
		{name: "missing endpoint", cfg: config.StorageConfig{}, msg: "endpoint is required"},
		{name: "missing credentials", cfg: config.StorageConfig{Endpoint: "localhost:9000"}, msg: "credentials are required"},
		{name: "missing bucket", cfg: config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, msg: "bucket is required"},
		{name: "bad endpoint", cfg: config.StorageConfig{Endpoint: "ftp://x", AccessKey: "a", SecretKey: "b", Bucket: "c"}, msg: "unsupported scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
