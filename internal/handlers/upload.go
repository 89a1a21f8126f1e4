package handlers

import (
	"mime/multipart"
	"net/http"

	"sitedesk/internal/content"
)

// maxUploadSize is the maximum allowed file upload size (50 MB).
const maxUploadSize = 50 << 20

// formFile extracts one uploaded file from the parsed multipart form.
// Returns a nil file (and a no-op closer) when the field was left empty,
// which is not an error.
func formFile(r *http.Request, field string) (*content.File, func(), error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return fileFromHeader(file, header), func() { file.Close() }, nil
}

// formFiles extracts every uploaded file for a multi-file field, in
// selection order.
func formFiles(r *http.Request, field string) ([]*content.File, func(), error) {
	if r.MultipartForm == nil {
		return nil, func() {}, nil
	}
	headers := r.MultipartForm.File[field]

	var files []*content.File
	var open []multipart.File
	closeAll := func() {
		for _, f := range open {
			f.Close()
		}
	}
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		open = append(open, f)
		files = append(files, fileFromHeader(f, header))
	}
	return files, closeAll, nil
}

func fileFromHeader(f multipart.File, header *multipart.FileHeader) *content.File {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &content.File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      f,
	}
}
