// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Posts covers the feed, confessions, likes and comments.
type Posts struct{ base }

// FeedOptions filters the feed. Zero Page and Size use the server defaults.
type FeedOptions struct {
	Type model.PostType
	Page int
	Size int
}

// Feed returns posts of the session user's university.
func (p *Posts) Feed(ctx context.Context, opts FeedOptions) ([]model.Post, error) {
	q := p.universityQuery()
	if opts.Type != "" {
		q.Set("type", string(opts.Type))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Size > 0 {
		q.Set("size", strconv.Itoa(opts.Size))
	}
	var feed model.Feed
	if err := p.gw.Do(ctx, api.Request{Path: "/posts/feed", Query: q}, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

// TopContributors returns the most active posters.
func (p *Posts) TopContributors(ctx context.Context) ([]model.Contributor, error) {
	var out []model.Contributor
	err := p.gw.Do(ctx, api.Request{Path: "/posts/top-contributors", Query: p.universityQuery()}, &out)
	return out, err
}

// Create publishes a post.
func (p *Posts) Create(ctx context.Context, content string, typ model.PostType, anonymous bool) (*model.Post, error) {
	var out model.Post
	err := p.gw.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/posts",
		Body:   model.CreatePostRequest{Content: content, Type: typ, IsAnonymous: anonymous},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a post.
func (p *Posts) Delete(ctx context.Context, postID int64) error {
	return p.gw.Do(ctx, api.Request{Method: http.MethodDelete, Path: idPath("/posts/", postID, "")}, nil)
}

// Like likes a post.
func (p *Posts) Like(ctx context.Context, postID int64) error {
	return p.gw.Do(ctx, api.Request{Method: http.MethodPost, Path: idPath("/posts/", postID, "/like")}, nil)
}

// Comment adds a comment to a post.
func (p *Posts) Comment(ctx context.Context, postID int64, content string) error {
	return p.gw.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   idPath("/posts/", postID, "/comment"),
		Body:   model.CommentRequest{Content: content},
	}, nil)
}

// DeleteComment removes a comment.
func (p *Posts) DeleteComment(ctx context.Context, commentID int64) error {
	return p.gw.Do(ctx, api.Request{Method: http.MethodDelete, Path: idPath("/posts/comments/", commentID, "")}, nil)
}
