package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidImage = errors.New("invalid image")

// decodeDataURI splits a base64 data URI ("data:image/png;base64,...") into
// its payload and media type.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: not a data uri", ErrInvalidImage)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload", ErrInvalidImage)
	}

	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: only base64 data uris are supported", ErrInvalidImage)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported media type %q", ErrInvalidImage, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	return data, contentType, nil
}

func isHostedURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

func imageFilename(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "image.jpg"
	case "image/png":
		return "image.png"
	case "image/webp":
		return "image.webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return "image" + exts[0]
	}
	return "image"
}

// uploadImages pushes every data uri to storage in parallel and returns the
// hosted urls in input order. Already hosted urls are passed through. The
// first failure cancels the remaining uploads.
func uploadImages(ctx context.Context, storage ImageStorage, images []string) ([]string, error) {
	urls := make([]string, len(images))

	if storage == nil {
		for _, img := range images {
			if !isHostedURL(img) {
				return nil, errors.New("image storage is not configured")
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, img := range images {
		if isHostedURL(img) {
			urls[i] = img
			continue
		}

		i, img := i, img
		g.Go(func() error {
			data, contentType, err := decodeDataURI(img)
			if err != nil {
				return err
			}

			meta, err := storage.UploadFile(ctx, bytes.NewReader(data), imageFilename(contentType), contentType)
			if err != nil {
				return err
			}
			urls[i] = meta.URL
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
