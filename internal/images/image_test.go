package images_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/curiolist/curio/internal/images"
)

func TestUploadCommand_Validate(t *testing.T) {
	const maxSize = 1024

	tests := []struct {
		name    string
		cmd     images.UploadCommand
		errType error
	}{
		{
			"valid jpeg",
			images.UploadCommand{FileName: "photo.jpg", MimeType: "image/jpeg", Data: []byte("x")},
			nil,
		},
		{
			"valid png",
			images.UploadCommand{FileName: "photo.png", MimeType: "image/png", Data: []byte("x")},
			nil,
		},
		{
			"valid gif",
			images.UploadCommand{FileName: "anim.gif", MimeType: "image/gif", Data: []byte("x")},
			nil,
		},
		{
			"valid webp",
			images.UploadCommand{FileName: "photo.webp", MimeType: "image/webp", Data: []byte("x")},
			nil,
		},
		{
			"empty data",
			images.UploadCommand{FileName: "photo.png", MimeType: "image/png"},
			images.ErrInvalidFile,
		},
		{
			"too large",
			images.UploadCommand{FileName: "big.png", MimeType: "image/png", Data: bytes.Repeat([]byte("x"), maxSize+1)},
			images.ErrFileTooLarge,
		},
		{
			"at size bound",
			images.UploadCommand{FileName: "big.png", MimeType: "image/png", Data: bytes.Repeat([]byte("x"), maxSize)},
			nil,
		},
		{
			"unsupported type",
			images.UploadCommand{FileName: "doc.pdf", MimeType: "application/pdf", Data: []byte("x")},
			images.ErrInvalidFile,
		},
		{
			"missing type",
			images.UploadCommand{FileName: "photo.png", Data: []byte("x")},
			images.ErrInvalidFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate(maxSize)

			if tt.errType == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.errType) {
				t.Errorf("Validate() error = %v, want %v", err, tt.errType)
			}
		})
	}
}
