package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_UploadDestroy(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:4000/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	asset, err := store.Upload(ctx, FolderAvatar, File{Name: "Me.PNG", Data: []byte("png-bytes")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.PublicID, "AVATAR/"))
	assert.True(t, strings.HasSuffix(asset.PublicID, ".png"))
	assert.Equal(t, "http://localhost:4000/uploads/"+asset.PublicID, asset.URL)

	onDisk, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(asset.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(onDisk))

	require.NoError(t, store.Destroy(ctx, asset.PublicID))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(asset.PublicID)))
	assert.True(t, os.IsNotExist(err))

	// Destroying twice is harmless.
	assert.NoError(t, store.Destroy(ctx, asset.PublicID))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	for _, id := range []string{"", "../etc/passwd", "/etc/passwd", "AVATAR/../../x", "..", `AVATAR\x`} {
		assert.ErrorIs(t, store.Destroy(context.Background(), id), ErrInvalidPublicID, id)
	}
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
	body    []byte
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
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
	api := &fakeS3{}
	store := newS3Store(api, S3Config{Endpoint: "http://minio:9000/", Bucket: "portfolio"})
	ctx := context.Background()

	asset, err := store.Upload(ctx, FolderResume, File{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
	require.Len(t, api.puts, 1)
	assert.Equal(t, "portfolio", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, asset.PublicID, aws.ToString(api.puts[0].Key))
	assert.Equal(t, "application/pdf", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, "%PDF-1.4", string(api.body))
	assert.Equal(t, "http://minio:9000/portfolio/"+asset.PublicID, asset.URL)

	require.NoError(t, store.Destroy(ctx, asset.PublicID))
	assert.Equal(t, []string{asset.PublicID}, api.deletes)
}

func TestS3Store_Errors(t *testing.T) {
	api := &fakeS3{err: errors.New("connection refused")}
	store := newS3Store(api, S3Config{Bucket: "b", Region: "eu-west-1", PublicURL: "https://cdn.example.com/"})

	_, err := store.Upload(context.Background(), FolderIcons, File{Name: "go.svg"})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, "https://cdn.example.com", store.publicURL)

	assert.ErrorIs(t, store.Destroy(context.Background(), "../x"), ErrInvalidPublicID)
}

func TestS3Store_DefaultPublicURL(t *testing.T) {
	store := newS3Store(&fakeS3{}, S3Config{Bucket: "assets", Region: "us-east-1"})
	assert.Equal(t, "https://assets.s3.us-east-1.amazonaws.com", store.publicURL)
}

func TestInstrument(t *testing.T) {
	api := &fakeS3{}
	store := Instrument(newS3Store(api, S3Config{Bucket: "b", Endpoint: "http://s3"}))

	asset, err := store.Upload(context.Background(), FolderProjects, File{Name: "p.png"})
	require.NoError(t, err)
	require.NoError(t, store.Destroy(context.Background(), asset.PublicID))
	assert.Len(t, api.deletes, 1)
}
