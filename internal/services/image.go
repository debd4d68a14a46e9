package services

import (
	"context"
	"fmt"
	"time"

	"eventbook-backend/internal/apperr"

	"github.com/google/uuid"
)

const uploadURLExpiry = 5 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
}

// ImageService hands out upload URLs for event images
type ImageService struct {
	eventService *EventService
	presigner    Presigner
}

// NewImageService creates a new image service
func NewImageService(eventService *EventService, presigner Presigner) *ImageService {
	return &ImageService{
		eventService: eventService,
		presigner:    presigner,
	}
}

// UploadRequest represents a request to get a pre-signed URL
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ImageKey  string `json:"image_key"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload generates a pre-signed URL for an image of an event owned by
// userID and records the image key on the event.
func (s *ImageService) PresignUpload(ctx context.Context, userID, eventID, contentType string) (*UploadResponse, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperr.Validation("unsupported content type %q", contentType)
	}

	event, err := s.eventService.getOwned(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	// events/{event_id}/{image_id}.{ext}
	imageKey := fmt.Sprintf("events/%s/%s.%s", event.ID, uuid.New().String(), ext)

	uploadURL, err := s.presigner.PresignPut(ctx, imageKey, contentType, uploadURLExpiry)
	if err != nil {
		return nil, apperr.Remote("failed to generate upload URL", err)
	}

	if err := s.eventService.attachImage(ctx, event, imageKey); err != nil {
		return nil, err
	}

	return &UploadResponse{
		UploadURL: uploadURL,
		ImageKey:  imageKey,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}
