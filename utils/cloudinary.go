package utils

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, publicID, folder string) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary.
type CloudinaryUploader struct {
	cld          *cloudinary.Cloudinary
	uploadPreset string
}

// NewCloudinaryUploader initializes the Cloudinary client
func NewCloudinaryUploader(cloudName, apiKey, apiSecret, uploadPreset string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, uploadPreset: uploadPreset}, nil
}

// UploadImage uploads a file to Cloudinary and returns the secure URL
func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, publicID, folder string) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UploadPreset:   u.uploadPreset,
		Transformation: "c_thumb,w_200,h_200", // Resize profile pictures
	}

	resp, err := u.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
