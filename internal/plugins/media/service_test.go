package media

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// --- Mocks ---

// mockUploadRepo implements UploadRepository for testing.
type mockUploadRepo struct {
	createFn func(ctx context.Context, u *Upload) error
}

func (m *mockUploadRepo) Create(ctx context.Context, u *Upload) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

// memoryStore is an in-memory BlobStore.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "mem/" + key, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStore) Destination() string { return "mem" }

func assertAppError(t *testing.T, err error, expectedCode int) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status code %d, got %d (%s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

var (
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, []byte("rest-of-png")...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("rest-of-jpeg")...)
	gifBytes  = []byte("GIF89a-rest-of-gif")
)

func TestValidateMagicBytes(t *testing.T) {
	tests := []struct {
		data []byte
		mime string
		want bool
	}{
		{pngBytes, "image/png", true},
		{jpegBytes, "image/jpeg", true},
		{gifBytes, "image/gif", true},
		{[]byte("GIF87a"), "image/gif", true},
		{pngBytes, "image/jpeg", false},
		{[]byte("plain text"), "image/png", false},
		{[]byte{0xFF}, "image/jpeg", false},
		{pngBytes, "application/pdf", false},
	}
	for _, tt := range tests {
		if got := validateMagicBytes(tt.data, tt.mime); got != tt.want {
			t.Errorf("validateMagicBytes(%q, %s) = %v, want %v", tt.data, tt.mime, got, tt.want)
		}
	}
}

func TestUpload_Success(t *testing.T) {
	var recorded *Upload
	repo := &mockUploadRepo{createFn: func(_ context.Context, u *Upload) error {
		recorded = u
		return nil
	}}
	store := newMemoryStore()
	svc := NewMediaService(repo, store, 1024)

	up, err := svc.Upload(context.Background(), UploadInput{
		UploadedBy:   "user-1",
		OriginalName: "cat.png",
		MimeType:     "image/png",
		FileBytes:    pngBytes,
	})
	if err != nil {
		t.Fatal(err)
	}
	if recorded != up {
		t.Error("expected the upload to be recorded")
	}
	if !strings.HasSuffix(up.Filename, ".png") || up.Filename != up.ID+".png" {
		t.Errorf("unexpected filename %q", up.Filename)
	}
	if up.OriginalName != "cat.png" || up.FileSize != int64(len(pngBytes)) || up.Location != "mem/"+up.Filename {
		t.Errorf("unexpected upload: %+v", up)
	}
	if _, ok := store.objects[up.Filename]; !ok {
		t.Error("file not written to store")
	}
}

func TestClampOriginalName(t *testing.T) {
	long := strings.Repeat("ä", 300)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "cat.png", "cat.png"},
		{"at limit", strings.Repeat("a", 251) + ".png", strings.Repeat("a", 251) + ".png"},
		{"keeps extension", long + ".png", strings.Repeat("ä", 251) + ".png"},
		{"no extension", long, strings.Repeat("ä", 255)},
		{"extension alone too long", "a." + long, string([]rune("a." + long)[:255])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clampOriginalName(tt.in)
			if got != tt.want {
				t.Errorf("got %d runes, want %d", utf8.RuneCountInString(got), utf8.RuneCountInString(tt.want))
			}
			if utf8.RuneCountInString(got) > maxOriginalNameLen {
				t.Errorf("result exceeds %d runes", maxOriginalNameLen)
			}
		})
	}
}

func TestUpload_LongOriginalNameIsClamped(t *testing.T) {
	var recorded *Upload
	repo := &mockUploadRepo{createFn: func(_ context.Context, u *Upload) error {
		recorded = u
		return nil
	}}
	svc := NewMediaService(repo, newMemoryStore(), 1024)

	_, err := svc.Upload(context.Background(), UploadInput{
		UploadedBy:   "user-1",
		OriginalName: strings.Repeat("x", 400) + ".png",
		MimeType:     "image/png",
		FileBytes:    pngBytes,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := utf8.RuneCountInString(recorded.OriginalName); n != maxOriginalNameLen {
		t.Errorf("recorded name has %d runes, want %d", n, maxOriginalNameLen)
	}
	if !strings.HasSuffix(recorded.OriginalName, ".png") {
		t.Errorf("extension lost: %q", recorded.OriginalName[len(recorded.OriginalName)-8:])
	}
}

func TestUpload_UniqueNames(t *testing.T) {
	svc := NewMediaService(&mockUploadRepo{}, newMemoryStore(), 1024)
	in := UploadInput{UploadedBy: "u", OriginalName: "same.gif", MimeType: "image/gif", FileBytes: gifBytes}

	a, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if a.Filename == b.Filename {
		t.Error("two uploads with the same original name must get distinct stored names")
	}
}

func TestUpload_Rejections(t *testing.T) {
	svc := NewMediaService(&mockUploadRepo{}, newMemoryStore(), 16)

	tests := []struct {
		name string
		in   UploadInput
		want string
	}{
		{"wrong type", UploadInput{MimeType: "application/pdf", FileBytes: []byte("%PDF")}, "Only images are allowed"},
		{"spoofed type", UploadInput{MimeType: "image/png", FileBytes: []byte("not really a png")}, "Only images are allowed"},
		{"too large", UploadInput{MimeType: "image/gif", FileBytes: append([]byte("GIF89a"), make([]byte, 20)...)}, "File too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.in)
			appErr := assertAppError(t, err, http.StatusBadRequest)
			if appErr.Message != tt.want {
				t.Errorf("message = %q, want %q", appErr.Message, tt.want)
			}
		})
	}
}

func TestUpload_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.putErr = errors.New("disk full")
	svc := NewMediaService(&mockUploadRepo{}, store, 1024)

	_, err := svc.Upload(context.Background(), UploadInput{MimeType: "image/jpeg", FileBytes: jpegBytes})
	assertAppError(t, err, http.StatusInternalServerError)
}

func TestUpload_RecordFailureRemovesFile(t *testing.T) {
	store := newMemoryStore()
	repo := &mockUploadRepo{createFn: func(context.Context, *Upload) error {
		return errors.New("db down")
	}}
	svc := NewMediaService(repo, store, 1024)

	_, err := svc.Upload(context.Background(), UploadInput{MimeType: "image/jpeg", FileBytes: jpegBytes})
	assertAppError(t, err, http.StatusInternalServerError)
	if len(store.objects) != 0 {
		t.Errorf("orphaned files left behind: %v", store.objects)
	}
}
