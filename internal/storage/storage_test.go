package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/testutil"
)

func TestLocalStorePutDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/storage/pictures/")
	ctx := context.Background()

	url, err := s.Put(ctx, "7/abc.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/storage/pictures/7/abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "7", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(ctx, "7/abc.png"))
	require.NoError(t, s.Delete(ctx, "7/abc.png"))
	_, err = os.Stat(filepath.Join(dir, "7", "abc.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreKeepsKeysInsideDir(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/p")

	_, err := s.Put(context.Background(), "../../escape.png", "image/png", []byte("x"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)

	_, err = s.Put(context.Background(), "", "image/png", []byte("x"))
	assert.Error(t, err)
}

type fakeS3 struct {
	puts    map[string][]byte
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}}
	s := newS3Store(fake, "pics", "https://cdn.example.com/")
	ctx := context.Background()

	url, err := s.Put(ctx, "1/a.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/1/a.jpg", url)
	assert.Equal(t, []byte("jpeg"), fake.puts["pics/1/a.jpg"])

	require.NoError(t, s.Delete(ctx, "1/a.jpg"))
	assert.Equal(t, []string{"1/a.jpg"}, fake.deletes)

	fake.err = errors.New("denied")
	_, err = s.Put(ctx, "1/b.jpg", "image/jpeg", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestNewPicksDriver(t *testing.T) {
	cfg := testutil.Config()
	cfg.Storage.LocalDir = t.TempDir()

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	cfg.Storage.Driver = "s3"
	cfg.Storage.S3Bucket = ""
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Storage.Driver = "ftp"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
