package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolio/backend/internal/config"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"avatar.png":            "avatar.png",
		"my resume (final).pdf": "my_resume__final_.pdf",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\cv.docx`:   "cv.docx",
		"":                      "file",
		"///":                   "file",
		"héllo.png":             "h_llo.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestNewWithoutBucket(t *testing.T) {
	c, err := New(config.Config{})
	require.NoError(t, err)
	assert.Nil(t, c, "no bucket means uploads are disabled, not an error")
}

func TestNewStripsEndpointScheme(t *testing.T) {
	c, err := New(config.Config{
		S3Bucket:    "assets",
		S3Endpoint:  "https://minio.example.com:9000",
		S3AccessKey: "ak",
		S3SecretKey: "sk",
		S3Region:    "us-east-1",
		S3UseSSL:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "minio.example.com:9000", c.mc.EndpointURL().Host)
}
