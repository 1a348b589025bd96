// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewstate

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/client"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Every action follows the same shape: local validation, one request, then a
// full reload of the owning list. Nothing is patched in place.

// =============================================================================
// POSTS
// =============================================================================

// Like likes a post and reloads the active tab.
func (c *Controller) Like(ctx context.Context, postID int64) error {
	if err := c.guard("like posts"); err != nil {
		return err
	}
	if err := c.clients.Posts.Like(ctx, postID); err != nil {
		return c.actionFailed("like", err, "Failed to like post")
	}
	_ = c.Reload(ctx)
	c.notify.Success("Post liked!")
	return nil
}

// Comment adds a comment. Blank content is ignored.
func (c *Controller) Comment(ctx context.Context, postID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if err := c.guard("comment"); err != nil {
		return err
	}
	if err := c.clients.Posts.Comment(ctx, postID, content); err != nil {
		return c.actionFailed("comment", err, "Failed to post comment")
	}
	_ = c.Reload(ctx)
	c.notify.Success("Comment posted!")
	return nil
}

// DeleteComment removes one of the viewer's comments.
func (c *Controller) DeleteComment(ctx context.Context, commentID int64) error {
	if err := c.guard("delete comments"); err != nil {
		return err
	}
	if err := c.clients.Posts.DeleteComment(ctx, commentID); err != nil {
		return c.actionFailed("delete comment", err, "Failed to delete comment")
	}
	_ = c.Reload(ctx)
	c.notify.Success("Comment deleted")
	return nil
}

// DeletePost removes one of the viewer's posts.
func (c *Controller) DeletePost(ctx context.Context, postID int64) error {
	if err := c.guard("delete posts"); err != nil {
		return err
	}
	if err := c.clients.Posts.Delete(ctx, postID); err != nil {
		return c.actionFailed("delete post", err, "Failed to delete")
	}
	c.notify.Success("Post deleted")
	_ = c.Reload(ctx)
	return nil
}

// CreatePost publishes a post, or an anonymous confession, and switches to
// the tab that shows it.
func (c *Controller) CreatePost(ctx context.Context, content string, confession bool) error {
	if err := c.guard("create a post"); err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return c.invalid("Please enter post content")
	}

	c.loader.Show("Creating post...")
	defer c.loader.Hide()

	typ, tab := model.PostNormal, TabFeed
	if confession {
		typ, tab = model.PostConfession, TabConfessions
	}
	if _, err := c.clients.Posts.Create(ctx, content, typ, confession); err != nil {
		return c.actionFailed("create post", err, "Failed to create post")
	}
	_ = c.SwitchTab(ctx, tab)
	c.notify.Success("Post created successfully!")
	return nil
}

// =============================================================================
// PYQS
// =============================================================================

// PYQForm is a past paper to upload. The caller owns File.
type PYQForm struct {
	Subject  string
	Year     string
	ExamType string
	FileName string
	File     io.Reader
}

// UploadPYQ uploads a past paper and switches to the PYQ tab.
func (c *Controller) UploadPYQ(ctx context.Context, f PYQForm) error {
	if err := c.guard("upload PYQs"); err != nil {
		return err
	}
	if strings.TrimSpace(f.Subject) == "" || strings.TrimSpace(f.Year) == "" || f.File == nil {
		return c.invalid("Please fill all required fields")
	}
	if f.ExamType == "" {
		f.ExamType = model.ExamMidSem
	}

	c.loader.Show("Uploading PYQ...")
	defer c.loader.Hide()

	_, err := c.clients.PYQs.Upload(ctx, client.PYQUpload{
		Subject:  strings.TrimSpace(f.Subject),
		Year:     strings.TrimSpace(f.Year),
		ExamType: f.ExamType,
		FileName: f.FileName,
		File:     f.File,
	})
	if err != nil {
		return c.actionFailed("upload pyq", err, api.Message(err, "Failed to upload PYQ"))
	}
	_ = c.SwitchTab(ctx, TabPYQ)
	c.notify.Success("PYQ uploaded successfully!")
	return nil
}

// DeletePYQ removes one of the viewer's uploads and reloads the PYQ list.
func (c *Controller) DeletePYQ(ctx context.Context, id int64) error {
	if err := c.guard("delete uploads"); err != nil {
		return err
	}
	if err := c.clients.PYQs.Delete(ctx, id); err != nil {
		return c.actionFailed("delete pyq", err, "Failed to delete")
	}
	c.notify.Success("Upload deleted")
	if err := c.loadPYQs(ctx); err != nil {
		c.logger.Warn("reload pyqs failed", zap.Error(err))
	}
	return nil
}

// =============================================================================
// MARKETPLACE AND ALUMNI
// =============================================================================

// ListingForm is a marketplace listing as typed by the user.
type ListingForm struct {
	Title       string
	Description string
	Price       string
	Category    string
	ImageURL    string
}

// CreateListing lists an item and switches to the marketplace.
func (c *Controller) CreateListing(ctx context.Context, f ListingForm) error {
	if err := c.guard("sell items"); err != nil {
		return err
	}
	title := strings.TrimSpace(f.Title)
	priceText := strings.TrimSpace(f.Price)
	if title == "" || priceText == "" {
		return c.invalid("Please enter title and price")
	}
	price, err := strconv.ParseFloat(strings.TrimPrefix(priceText, "₹"), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return c.invalid("Please enter a valid price")
	}

	c.loader.Show("Listing item...")
	defer c.loader.Hide()

	_, err = c.clients.Marketplace.Create(ctx, model.ListingRequest{
		Title:       title,
		Description: strings.TrimSpace(f.Description),
		Price:       price,
		Category:    strings.TrimSpace(f.Category),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	})
	if err != nil {
		return c.actionFailed("create listing", err, api.Message(err, "Failed to list item"))
	}
	_ = c.SwitchTab(ctx, TabMarketplace)
	c.notify.Success("Item listed successfully!")
	return nil
}

// DeleteItem removes one of the viewer's listings and reloads the
// marketplace.
func (c *Controller) DeleteItem(ctx context.Context, id int64) error {
	if err := c.guard("delete listings"); err != nil {
		return err
	}
	if err := c.clients.Marketplace.Delete(ctx, id); err != nil {
		return c.actionFailed("delete item", err, "Failed to delete")
	}
	c.notify.Success("Item deleted")
	if err := c.loadMarketplace(ctx); err != nil {
		c.logger.Warn("reload marketplace failed", zap.Error(err))
	}
	return nil
}

// CreateAlumniProfile publishes the viewer's alumni profile and switches to
// the alumni tab.
func (c *Controller) CreateAlumniProfile(ctx context.Context, req model.AlumniProfileRequest) error {
	if err := c.guard("create a profile"); err != nil {
		return err
	}
	req.Company = strings.TrimSpace(req.Company)
	req.JobRole = strings.TrimSpace(req.JobRole)
	if req.Company == "" || req.JobRole == "" {
		return c.invalid("Please fill all required fields")
	}

	c.loader.Show("Saving profile...")
	defer c.loader.Hide()

	if _, err := c.clients.Alumni.CreateProfile(ctx, req); err != nil {
		return c.actionFailed("create alumni profile", err, api.Message(err, "Failed to save profile"))
	}
	_ = c.SwitchTab(ctx, TabAlumni)
	c.notify.Success("Profile saved!")
	return nil
}

// JoinClub acknowledges a join request. The backend has no membership
// endpoint, so nothing is sent.
func (c *Controller) JoinClub(clubID int64) error {
	if err := c.guard("join clubs"); err != nil {
		return err
	}
	c.logger.Debug("club join requested", zap.Int64("club_id", clubID))
	c.notify.Info("Join request sent!")
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Controller) invalid(msg string) error {
	c.notify.Error(msg)
	return api.Validation(msg)
}

// actionFailed logs and reports a failed action. After a 401 the session is
// gone and the user is already on the way to the login screen, so no toast
// is shown.
func (c *Controller) actionFailed(action string, err error, msg string) error {
	c.logger.Warn("action failed", zap.String("action", action), zap.Error(err))
	if !api.IsUnauthorized(err) {
		c.notify.Error(msg)
	}
	return err
}
