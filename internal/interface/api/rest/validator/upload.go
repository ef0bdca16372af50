package validator

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	"bookmark-api/internal/domain/bookmark"
)

// AllowedUploadTypes are matched against the sniffed content, not the client header.
var AllowedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// ValidateUpload opens fh, checks its size and sniffed type and returns an
// attachment reading from the start of the file. The caller closes the
// returned closer once the attachment has been consumed.
func ValidateUpload(fh *multipart.FileHeader, maxBytes int64) (*bookmark.Attachment, io.Closer, map[string]string) {
	if fh == nil {
		return nil, nil, map[string]string{"file": "file is required"}
	}
	if fh.Size <= 0 {
		return nil, nil, map[string]string{"file": "file is empty"}
	}
	if fh.Size > maxBytes {
		return nil, nil, map[string]string{"file": fmt.Sprintf("file exceeds %d bytes", maxBytes)}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, map[string]string{"file": "file is unreadable"}
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, map[string]string{"file": "file is unreadable"}
	}
	if !allowedType(mtype) {
		_ = f.Close()
		return nil, nil, map[string]string{"file": "file type " + mtype.String() + " is not allowed"}
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, nil, map[string]string{"file": "file is unreadable"}
	}

	return &bookmark.Attachment{
		FileName:    fh.Filename,
		ContentType: mtype.String(),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}

func allowedType(m *mimetype.MIME) bool {
	for _, t := range AllowedUploadTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}
