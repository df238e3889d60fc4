package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// Images above the hard limit are rejected outright, before anything is
	// persisted. The soft limit only triggers a warning: payloads that large
	// still work but degrade feed load times.
	maxImageBytes  = 5 * 1024 * 1024
	softImageBytes = 2 * 1024 * 1024

	// PlaceholderImageURL is substituted when an image cannot be stored.
	PlaceholderImageURL = "/static/placeholder-donation.png"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the 5MB limit")
	ErrImageInvalidData = errors.New("image payload is not a valid base64 data URL")
	ErrImageBadType     = errors.New("image must be JPEG, PNG or WebP")

	imageContentTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
		"image/webp": {},
	}
)

// ImageCheck is the outcome of inspecting an image payload.
type ImageCheck struct {
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	OverSoftSize bool   `json:"over_soft_size"`
}

// decodeImagePayload accepts either a data URL ("data:image/png;base64,...")
// or bare base64 and returns the decoded bytes with the sniffed content type.
// The size check runs on the encoded length first so oversized payloads are
// refused without decoding them.
func decodeImagePayload(payload string) ([]byte, *ImageCheck, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, nil, ErrImageInvalidData
	}
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		_, rest, found := strings.Cut(payload, ",")
		if !found {
			return nil, nil, ErrImageInvalidData
		}
		encoded = rest
	}

	// Base64 expands by 4/3; this bound can only over-estimate.
	if int64(len(encoded))/4*3 > maxImageBytes+2 {
		return nil, &ImageCheck{SizeBytes: int64(len(encoded)) / 4 * 3}, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrImageInvalidData, err)
	}
	check := &ImageCheck{SizeBytes: int64(len(data))}
	if check.SizeBytes > maxImageBytes {
		return nil, check, ErrImageTooLarge
	}
	check.OverSoftSize = check.SizeBytes > softImageBytes

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	check.ContentType = strings.ToLower(strings.TrimSpace(http.DetectContentType(sniff)))
	if _, ok := imageContentTypes[check.ContentType]; !ok {
		return nil, check, ErrImageBadType
	}
	return data, check, nil
}
