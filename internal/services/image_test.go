package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"
)

type fakePresigner struct {
	key         string
	contentType string
	expires     time.Duration
	err         error
}

func (p *fakePresigner) PresignPut(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.key, p.contentType, p.expires = key, contentType, expires
	return "https://upload.example.test/" + key, nil
}

func TestPresignUploadAttachesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	presigner := &fakePresigner{}
	images := NewImageService(f.eventService, presigner)
	event := f.create(t, "alice", "Launch")

	resp, err := images.PresignUpload(ctx, "alice", event.ID, "image/png")
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	if !strings.HasPrefix(resp.ImageKey, "events/"+event.ID+"/") || !strings.HasSuffix(resp.ImageKey, ".png") {
		t.Fatalf("image key = %q", resp.ImageKey)
	}
	if presigner.key != resp.ImageKey || presigner.contentType != "image/png" || presigner.expires != uploadURLExpiry {
		t.Fatalf("presigner called with %+v", presigner)
	}
	if resp.ExpiresIn != 300 {
		t.Fatalf("expires_in = %d", resp.ExpiresIn)
	}

	stored, _ := f.eventService.Get(ctx, event.ID)
	if stored.ImageKey == nil || *stored.ImageKey != resp.ImageKey {
		t.Fatalf("image key not recorded: %+v", stored.ImageKey)
	}

	// A later save that does not mention the image keeps it.
	saved, err := f.eventService.Save(ctx, "alice", models.EventInput{
		ID: event.ID, Title: "Launch v2", Description: "Ship it",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ImageKey == nil || *saved.ImageKey != resp.ImageKey {
		t.Fatalf("image key lost on save: %+v", saved.ImageKey)
	}
}

func TestPresignUploadErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := f.create(t, "alice", "Launch")

	tests := []struct {
		name        string
		presigner   *fakePresigner
		userID      string
		eventID     string
		contentType string
		want        error
	}{
		{"not owner", &fakePresigner{}, "bob", event.ID, "image/jpeg", apperr.ErrPermissionDenied},
		{"missing event", &fakePresigner{}, "alice", "missing", "image/jpeg", apperr.ErrNotFound},
		{"bad content type", &fakePresigner{}, "alice", event.ID, "text/html", apperr.ErrValidation},
		{"store failure", &fakePresigner{err: errors.New("boom")}, "alice", event.ID, "", apperr.ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := NewImageService(f.eventService, tt.presigner)
			_, err := images.PresignUpload(ctx, tt.userID, tt.eventID, tt.contentType)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	stored, _ := f.eventService.Get(ctx, event.ID)
	if stored.ImageKey != nil {
		t.Fatalf("failed uploads must not record a key: %v", *stored.ImageKey)
	}
}
