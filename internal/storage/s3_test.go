package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestPresignPutUsesCustomEndpoint(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), S3Options{
		Region:    "us-east-1",
		Bucket:    "event-images",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		Endpoint:  "https://s3.example.test",
	})
	if err != nil {
		t.Fatalf("new presigner: %v", err)
	}

	raw, err := p.PresignPut(context.Background(), "events/e1/cover.jpg", "image/jpeg", 5*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Host != "s3.example.test" {
		t.Fatalf("host = %q", u.Host)
	}
	if u.Path != "/event-images/events/e1/cover.jpg" {
		t.Fatalf("path = %q", u.Path)
	}
	if got := u.Query().Get("X-Amz-Expires"); got != "300" {
		t.Fatalf("expires = %q", got)
	}
	if !strings.Contains(u.Query().Get("X-Amz-Credential"), "AKIDEXAMPLE") {
		t.Fatalf("credential = %q", u.Query().Get("X-Amz-Credential"))
	}
}
