// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	UniversityID   *int64 `json:"universityId,omitempty"`
	GraduationYear *int   `json:"graduationYear,omitempty"`
	Role           string `json:"role,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token        string `json:"token"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	UniversityID int64  `json:"universityId"`
	UserID       int64  `json:"userId"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Content     string   `json:"content"`
	Type        PostType `json:"type"`
	IsAnonymous bool     `json:"isAnonymous"`
}

// CommentRequest is the body of POST /posts/{id}/comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// ListingRequest is the body of POST /marketplace/items.
type ListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// AlumniProfileRequest is the body of POST /alumni/profile.
type AlumniProfileRequest struct {
	Company           string `json:"company"`
	JobRole           string `json:"jobRole"`
	YearsOfExperience int    `json:"yearsOfExperience"`
	Review            string `json:"review,omitempty"`
	LinkedInURL       string `json:"linkedinUrl,omitempty"`
}

// SendMessageRequest is the body of POST /chat/send. ItemID is sent as null
// when the message is not about a listing.
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
	ItemID     *int64 `json:"itemId"`
}
