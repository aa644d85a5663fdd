package media

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
	"github.com/keyxmakerx/stockroom/internal/middleware"
	"github.com/keyxmakerx/stockroom/internal/plugins/auth"
)

// tokenService verifies tokens for RequireAuth without a user store.
type tokenService struct {
	auth.AuthService
	issuer *auth.TokenIssuer
}

func (s tokenService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("Unauthorized")
	}
	return claims, nil
}

type envelope struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Data    UploadResponse `json:"data"`
	Error   string         `json:"error"`
}

const testMaxSize = 4096

func newTestServer(t *testing.T) (*echo.Echo, string, *memoryStore) {
	t.Helper()
	issuer := auth.NewTokenIssuer("media-test-secret", time.Hour)
	token, err := issuer.Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}

	store := newMemoryStore()
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	RegisterRoutes(e,
		NewHandler(NewMediaService(&mockUploadRepo{}, store, testMaxSize)),
		auth.RequireAuth(tokenService{issuer: issuer}),
		testMaxSize,
	)
	return e, token, store
}

// multipartBody builds a form with one file part. An empty field skips the part.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	} else if err := w.WriteField("note", "no file here"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, e *echo.Echo, token string, body *bytes.Buffer, contentType string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestUploadHandler_Success(t *testing.T) {
	e, token, store := newTestServer(t)

	body, ct := multipartBody(t, "image", "cat.png", "image/png", pngBytes)
	code, env := doUpload(t, e, token, body, ct)
	if code != http.StatusOK || !env.Success || env.Message != "Image uploaded successfully" {
		t.Fatalf("upload: %d %+v", code, env)
	}

	d := env.Data
	if d.Fieldname != "image" || d.Originalname != "cat.png" || d.Mimetype != "image/png" {
		t.Errorf("unexpected metadata: %+v", d)
	}
	if d.Destination != "mem" || d.Path != "mem/"+d.Filename || d.Size != int64(len(pngBytes)) {
		t.Errorf("unexpected location: %+v", d)
	}
	if d.Filename != d.ID+".png" {
		t.Errorf("stored name should be id plus extension, got %q", d.Filename)
	}
	if !bytes.Equal(store.objects[d.Filename], pngBytes) {
		t.Error("stored bytes differ from upload")
	}
}

func TestUploadHandler_Rejections(t *testing.T) {
	e, token, _ := newTestServer(t)

	tests := []struct {
		name       string
		field      string
		filename   string
		mime       string
		data       []byte
		token      string
		wantStatus int
		wantMsg    string
	}{
		{"no token", "image", "cat.png", "image/png", pngBytes, "", http.StatusUnauthorized, "Unauthorized"},
		{"no file", "", "", "", nil, token, http.StatusBadRequest, "Please upload an image"},
		{"wrong field", "file", "cat.png", "image/png", pngBytes, token, http.StatusBadRequest, "Please upload an image"},
		{"wrong type", "image", "doc.pdf", "application/pdf", []byte("%PDF-1.7"), token, http.StatusBadRequest, "Only images are allowed"},
		{"spoofed type", "image", "evil.png", "image/png", []byte("<?php echo 1; ?>"), token, http.StatusBadRequest, "Only images are allowed"},
		{"too large for limit", "image", "big.gif", "image/gif", append([]byte("GIF89a"), make([]byte, testMaxSize)...), token, http.StatusBadRequest, "File too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.field, tt.filename, tt.mime, tt.data)
			code, env := doUpload(t, e, tt.token, body, ct)
			if code != tt.wantStatus || env.Message != tt.wantMsg || env.Success {
				t.Errorf("got %d %q, want %d %q", code, env.Message, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestUploadHandler_BodyLimit(t *testing.T) {
	e, token, _ := newTestServer(t)

	body, ct := multipartBody(t, "image", "huge.gif", "image/gif", append([]byte("GIF89a"), make([]byte, 4*testMaxSize)...))
	code, env := doUpload(t, e, token, body, ct)
	if code != http.StatusRequestEntityTooLarge || env.Error != apperror.TypePayloadTooLarge {
		t.Errorf("got %d %+v, want 413", code, env)
	}
}
