// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Field is one text part of a multipart form.
type Field struct {
	Name  string
	Value string
}

// FilePart is the file part of a multipart form.
type FilePart struct {
	// Field is the form field name, e.g. "file".
	Field string

	// Name is the file name sent to the server.
	Name string

	// ContentType defaults to application/octet-stream.
	ContentType string

	Content io.Reader
}

// Multipart describes an upload. Fields are written in order, then the file.
type Multipart struct {
	Path   string
	Fields []Field
	File   *FilePart
	Header http.Header
}

func (m Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if m.File != nil {
		if m.File.Content == nil {
			return nil, "", errors.New("file part has no content")
		}
		ct := m.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, m.File.Field, m.File.Name))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, m.File.Content); err != nil {
			return nil, "", fmt.Errorf("copy file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
