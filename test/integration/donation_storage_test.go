package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/foodshareapp/foodshare-backend/internal/service"
)

// pngPixel is a 1x1 PNG, the smallest payload http.DetectContentType
// recognizes as image/png.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_MINIO") == "" {
		t.Skip("set INTEGRATION_MINIO=1 to run MinIO container tests")
	}
}

func objectKeyFromPresignedURL(t *testing.T, rawURL string) string {
	t.Helper()
	idx := strings.Index(rawURL, "/donations/")
	if idx < 0 {
		t.Fatalf("URL does not contain a donations object path: %s", rawURL)
	}
	key := rawURL[idx+1:]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key
}

func TestMinIOUploadAndDeleteDonationImage(t *testing.T) {
	skipWithoutDocker(t)
	env := newMinIOIntegrationEnv(t)
	ctx := context.Background()

	const donorID = uint(42)
	imageURL, err := env.storage.UploadDonationImage(ctx, donorID, pngPixel, "image/png")
	if err != nil {
		t.Fatalf("upload donation image: %v", err)
	}

	key := objectKeyFromPresignedURL(t, imageURL)
	wantPrefix := fmt.Sprintf("donations/donor-%d/", donorID)
	if !strings.HasPrefix(key, wantPrefix) {
		t.Fatalf("object key %q not under donor namespace %q", key, wantPrefix)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("object key %q missing png extension", key)
	}
	if !env.mustObjectExists(t, key) {
		t.Fatalf("uploaded object %q not found in bucket", key)
	}

	info := env.mustStatObject(t, key)
	if info.Size != int64(len(pngPixel)) {
		t.Fatalf("stored size %d, want %d", info.Size, len(pngPixel))
	}

	// The presigned URL serves the bytes back without credentials.
	resp, err := http.Get(imageURL)
	if err != nil {
		t.Fatalf("fetch presigned URL: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("presigned fetch status %d: %s", resp.StatusCode, body)
	}
	if len(body) != len(pngPixel) {
		t.Fatalf("presigned fetch returned %d bytes, want %d", len(body), len(pngPixel))
	}

	if err := env.storage.DeleteDonationImage(ctx, donorID, key); err != nil {
		t.Fatalf("delete donation image: %v", err)
	}
	if env.mustObjectExists(t, key) {
		t.Fatalf("object %q still present after delete", key)
	}
}

func TestMinIODeleteRefusesForeignNamespace(t *testing.T) {
	skipWithoutDocker(t)
	env := newMinIOIntegrationEnv(t)
	ctx := context.Background()

	imageURL, err := env.storage.UploadDonationImage(ctx, 7, pngPixel, "image/png")
	if err != nil {
		t.Fatalf("upload donation image: %v", err)
	}
	key := objectKeyFromPresignedURL(t, imageURL)

	if err := env.storage.DeleteDonationImage(ctx, 8, key); err == nil {
		t.Fatal("expected foreign-namespace delete to be refused")
	} else if err != service.ErrUnauthorizedAccess {
		t.Fatalf("unexpected error: %v", err)
	}
	if !env.mustObjectExists(t, key) {
		t.Fatalf("object %q removed despite ownership mismatch", key)
	}

	// Traversal attempts never hit the bucket.
	if err := env.storage.DeleteDonationImage(ctx, 7, "donations/donor-7/../donor-8/x.png"); err != service.ErrUnauthorizedAccess {
		t.Fatalf("expected traversal refusal, got %v", err)
	}
}

func TestMinIODeleteIgnoresEmptyKey(t *testing.T) {
	skipWithoutDocker(t)
	env := newMinIOIntegrationEnv(t)

	if err := env.storage.DeleteDonationImage(context.Background(), 1, "   "); err != nil {
		t.Fatalf("blank key should be a no-op, got %v", err)
	}
}
