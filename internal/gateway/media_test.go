package gateway

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecodeImagePayloadDataURI(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	contentType, data, err := decodeImagePayload(payload)
	if err != nil {
		t.Fatalf("decodeImagePayload returned error: %v", err)
	}
	if contentType != "image/png" {
		t.Fatalf("expected image/png, got %q", contentType)
	}
	if string(data) != string(raw) {
		t.Fatal("decoded bytes do not match input")
	}
}

func TestDecodeImagePayloadBareBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	contentType, data, err := decodeImagePayload(payload)
	if err != nil {
		t.Fatalf("decodeImagePayload returned error: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Fatalf("expected jpeg default, got %q", contentType)
	}
	if len(data) == 0 {
		t.Fatal("expected decoded bytes")
	}
}

func TestDecodeImagePayloadRejectsGarbage(t *testing.T) {
	if _, _, err := decodeImagePayload(""); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, _, err := decodeImagePayload("not base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, _, err := decodeImagePayload("data:image/png,plain"); err == nil {
		t.Fatal("expected error for non-base64 data URI")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"image/png":   ".png",
		"image/gif":   ".gif",
		"image/webp":  ".webp",
		"image/jpeg":  ".jpg",
		"image/other": ".jpg",
	}
	for contentType, want := range tests {
		if got := extensionFor(contentType); got != want {
			t.Fatalf("extensionFor(%q) = %q, want %q", contentType, got, want)
		}
	}
}

func TestObjectURL(t *testing.T) {
	m := &S3MediaStorage{bucket: "media", region: "eu-central-1"}
	if got := m.objectURL("avatars/a.png"); got != "https://media.s3.eu-central-1.amazonaws.com/avatars/a.png" {
		t.Fatalf("unexpected url %q", got)
	}

	m.endpoint = "http://localhost:9000/"
	if got := m.objectURL("avatars/a.png"); !strings.HasPrefix(got, "http://localhost:9000/media/") {
		t.Fatalf("unexpected endpoint url %q", got)
	}
}
