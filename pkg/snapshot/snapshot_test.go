package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	rerrors "github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

// fakeS3 records PutObject calls and serves them back from GetObject.
type fakeS3 struct {
	objects map[string][]byte
	inputs  []*s3.PutObjectInput
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(in.Body)
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.inputs = append(f.inputs, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func tree() *vdom.VNode {
	return vdom.Div(vdom.Attrs(vdom.ID("app")), vdom.P(nil, "hello"))
}

const wantHTML = `<html><body><div id="app"><p>hello</p></div></body></html>`

func TestKey(t *testing.T) {
	if got := Key("snaps/", "home"); got != "snaps/home.html" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("", "a/b"); got != "a/b.html" {
		t.Errorf("Key = %q", got)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"home", true},
		{"pages/home", true},
		{"", false},
		{"/abs", false},
		{"../up", false},
		{"a\\b", false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateName(%q) = %v, want ok=%v", tt.name, err, tt.ok)
		}
		if err != nil && !errors.Is(err, rerrors.New("E201")) {
			t.Errorf("ValidateName(%q) code = %v, want E201", tt.name, err)
		}
	}
}

func TestRender(t *testing.T) {
	got, err := Render(tree())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantHTML {
		t.Errorf("Render = %s", got)
	}

	if _, err := Render(nil); !errors.Is(err, vdom.ErrUnknownNodeType) {
		t.Errorf("Render(nil) = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("snaps/")

	key, err := Take(ctx, store, "home", tree())
	if err != nil {
		t.Fatal(err)
	}
	if key != "snaps/home.html" {
		t.Errorf("key = %q", key)
	}
	got, err := store.Get(ctx, "home")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantHTML {
		t.Errorf("stored = %s", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d", store.Len())
	}

	if _, err := store.Get(ctx, "missing"); err == nil {
		t.Error("Get of missing snapshot should fail")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := store.Put(cancelled, "late", nil); err == nil {
		t.Error("Put with cancelled context should fail")
	}
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{}
	store := NewS3Store(client, "bucket", "ui/")

	key, err := Take(ctx, store, "home", tree())
	if err != nil {
		t.Fatal(err)
	}
	if key != "ui/home.html" {
		t.Errorf("key = %q", key)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d", len(client.inputs))
	}
	in := client.inputs[0]
	if aws.ToString(in.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if in.Metadata["snapshot-name"] != "home" {
		t.Errorf("Metadata = %v", in.Metadata)
	}

	got, err := store.Get(ctx, "home")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantHTML {
		t.Errorf("Get = %s", got)
	}
}

func TestS3StoreErrors(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{err: errors.New("access denied")}
	store := NewS3Store(client, "bucket", "")

	_, err := store.Put(ctx, "home", []byte("x"))
	var e *rerrors.Error
	if !errors.As(err, &e) || e.Code != "E201" {
		t.Fatalf("Put error = %v, want E201", err)
	}
	if !strings.Contains(err.Error(), "access denied") {
		t.Errorf("error should wrap the cause: %v", err)
	}

	if _, err := store.Get(ctx, "missing"); err == nil {
		t.Error("Get of missing object should fail")
	}
	if _, err := store.Put(ctx, "../x", nil); err == nil {
		t.Error("Put with an escaping name should fail")
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	c := NewS3Client("us-east-1", "http://localhost:9000")
	opts := c.Options()
	if opts.Region != "us-east-1" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q pathStyle %v endpoint %q", opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "AKID" {
		t.Errorf("credentials = %+v, %v", creds, err)
	}
}
