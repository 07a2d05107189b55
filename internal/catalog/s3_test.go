package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "plan-access-bot/internal/common/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	listErr error
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Catalog_List(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"bot/VIP/b.zip":          nil,
		"bot/VIP/a.pdf":          nil,
		"bot/VIP/nested/c.txt":   nil,
		"bot/VIP/filelist.txt":   nil,
		"bot/NORMAL/normal.txt":  nil,
		"other/VIP/ignored.file": nil,
	}}
	c := NewS3Catalog(fake, "files", "bot")

	names, err := c.List(context.Background(), "VIP")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.zip"}, names)
}

func TestS3Catalog_ListError(t *testing.T) {
	c := NewS3Catalog(&fakeS3{listErr: errors.New("access denied")}, "files", "")
	_, err := c.List(context.Background(), "NORMAL")
	assert.True(t, apperrors.IsRemoteUnavailable(err))
}

func TestS3Catalog_Fetch(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"NORMAL/readme.txt": []byte("hi")}}
	c := NewS3Catalog(fake, "files", "")
	ctx := context.Background()

	data, err := c.Fetch(ctx, "NORMAL", "readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	_, err = c.Fetch(ctx, "NORMAL", "nope.txt")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestParseListFile(t *testing.T) {
	assert.Empty(t, parseListFile([]byte("\n# only comments\n   \n")))
	assert.Equal(t, []string{"a", "b c"}, parseListFile([]byte("a\r\nb c\r\n")))
}
