package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:5000/uploads/")
	require.NoError(t, err)

	resp, err := store.Upload(context.Background(), &UploadRequest{
		Key:         "blog/2026/10/abc.jpg",
		Reader:      strings.NewReader("jpeg-bytes"),
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/blog/2026/10/abc.jpg", resp.URL)
	assert.Equal(t, int64(10), resp.Size)

	data, err := os.ReadFile(filepath.Join(dir, "blog", "2026", "10", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), "blog/2026/10/abc.jpg"))
	require.NoError(t, store.Delete(context.Background(), "blog/2026/10/abc.jpg"))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "blog/../../x", "/abs"} {
		_, err := store.Upload(context.Background(), &UploadRequest{Key: key, Reader: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	delete *s3.DeleteObjectInput
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = params
	return &s3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delete = params
	return &s3.DeleteObjectOutput{}, nil
}

func TestAWSS3StorageUpload(t *testing.T) {
	client := &fakeS3{}
	store := &AWSS3Storage{client: client, bucket: "mikels-media", region: "eu-west-1"}

	resp, err := store.Upload(context.Background(), &UploadRequest{
		Key:          "blog/a.png",
		Reader:       strings.NewReader("png"),
		ContentType:  "image/png",
		Size:         3,
		CacheControl: "public, max-age=31536000",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://mikels-media.s3.eu-west-1.amazonaws.com/blog/a.png", resp.URL)
	assert.Equal(t, `"etag-1"`, resp.ETag)
	assert.Equal(t, "mikels-media", aws.ToString(client.put.Bucket))
	assert.Equal(t, "public, max-age=31536000", aws.ToString(client.put.CacheControl))

	require.NoError(t, store.Delete(context.Background(), "blog/a.png"))
	assert.Equal(t, "blog/a.png", aws.ToString(client.delete.Key))

	store.cdnDomain = "cdn.mikels.es"
	assert.Equal(t, "https://cdn.mikels.es/blog/a.png", store.URL("blog/a.png"))
}

func TestGCPStorageURL(t *testing.T) {
	store := &GCPStorage{bucket: "mikels"}
	assert.Equal(t, "https://storage.googleapis.com/mikels/blog/a.png", store.URL("blog/a.png"))
}
