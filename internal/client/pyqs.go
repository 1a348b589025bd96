// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// PYQs covers past exam papers.
type PYQs struct{ base }

// PYQFilter narrows the listing. Zero values are omitted.
type PYQFilter struct {
	Subject string
	Year    int
}

// List returns PYQs of the session user's university.
func (p *PYQs) List(ctx context.Context, f PYQFilter) ([]model.PYQ, error) {
	q := p.universityQuery()
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	var out []model.PYQ
	err := p.gw.Do(ctx, api.Request{Path: "/pyqs", Query: q}, &out)
	return out, err
}

// PYQUpload is one paper to upload.
type PYQUpload struct {
	Subject  string
	Year     string
	ExamType string
	FileName string
	File     io.Reader
}

// Upload sends the paper as multipart fields subject, year, examType, file.
func (p *PYQs) Upload(ctx context.Context, up PYQUpload) (*model.PYQ, error) {
	ct := mime.TypeByExtension(filepath.Ext(up.FileName))
	var out model.PYQ
	err := p.gw.Upload(ctx, api.Multipart{
		Path: "/pyqs/upload",
		Fields: []api.Field{
			{Name: "subject", Value: up.Subject},
			{Name: "year", Value: up.Year},
			{Name: "examType", Value: up.ExamType},
		},
		File: &api.FilePart{
			Field:       "file",
			Name:        filepath.Base(up.FileName),
			ContentType: ct,
			Content:     up.File,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an uploaded paper.
func (p *PYQs) Delete(ctx context.Context, id int64) error {
	return p.gw.Do(ctx, api.Request{Method: http.MethodDelete, Path: idPath("/pyqs/", id, "")}, nil)
}
