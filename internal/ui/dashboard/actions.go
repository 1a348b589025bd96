// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/view"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// =============================================================================
// SELECTED ACTIONS
// =============================================================================

// activate runs the action under the cursor. Deletes ask first.
func (m Model) activate(a view.Action) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	switch a.Name {
	case view.ActLike:
		return m, m.run(func(ctx context.Context) error { return ctrl.Like(ctx, a.ID) })

	case view.ActComment:
		if !ctrl.CanMutate("comment") {
			return m, nil
		}
		return m.openForm("Comment", []fieldSpec{
			{Label: "Comment", Placeholder: "Write a comment..."},
		}, func(v []string) tea.Cmd {
			return m.run(func(ctx context.Context) error { return ctrl.Comment(ctx, a.ID, v[0]) })
		})

	case view.ActDeleteComment:
		return m.ask(&confirmation{
			prompt: "Are you sure you want to delete this comment?",
			run:    func(ctx context.Context) error { return ctrl.DeleteComment(ctx, a.ID) },
		})

	case view.ActDeletePost:
		return m.ask(&confirmation{
			prompt: "Are you sure you want to delete this post?",
			run:    func(ctx context.Context) error { return ctrl.DeletePost(ctx, a.ID) },
		})

	case view.ActDeletePYQ:
		return m.ask(&confirmation{
			prompt: "Are you sure you want to delete this upload?",
			run:    func(ctx context.Context) error { return ctrl.DeletePYQ(ctx, a.ID) },
		})

	case view.ActDeleteItem:
		return m.ask(&confirmation{
			prompt: "Are you sure you want to delete this listing?",
			run:    func(ctx context.Context) error { return ctrl.DeleteItem(ctx, a.ID) },
		})

	case view.ActContactSeller:
		m.cursor = 0
		m.composeAfter = true
		return m, m.run(func(ctx context.Context) error {
			return ctrl.OpenChatWithSeller(ctx, a.Ref, a.ID, a.Arg)
		})

	case view.ActViewChats:
		return m.switchTab(viewstate.TabMessages)

	case view.ActOpenChat:
		return m, m.run(func(ctx context.Context) error { return ctrl.OpenChat(ctx, a.ID, a.Arg) })

	case view.ActJoinClub:
		return m, m.run(func(context.Context) error { return ctrl.JoinClub(a.ID) })
	}
	return m, nil
}

// ask shows a yes/no prompt.
func (m Model) ask(c *confirmation) (tea.Model, tea.Cmd) {
	m.confirm = c
	m.mode = modeConfirm
	return m, nil
}

// openForm shows a form in the bottom panel.
func (m Model) openForm(title string, specs []fieldSpec, submit func([]string) tea.Cmd) (tea.Model, tea.Cmd) {
	m.form = newForm(title, specs, submit)
	m.form.setWidth(m.width - 20)
	m.mode = modeForm
	return m, nil
}

// =============================================================================
// FORMS
// =============================================================================

func (m Model) openSearch() (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	return m.openForm("Search", []fieldSpec{
		{Label: "Search", Placeholder: "posts and marketplace"},
	}, func(v []string) tea.Cmd {
		return m.run(func(ctx context.Context) error { return ctrl.Search(ctx, v[0]) })
	})
}

// openNew opens the creation form that belongs to the active tab.
func (m Model) openNew(tab viewstate.Tab) (tea.Model, tea.Cmd) {
	switch tab {
	case viewstate.TabPYQ:
		return m.openUpload()
	case viewstate.TabMarketplace:
		return m.openListing()
	case viewstate.TabAlumni:
		return m.openAlumniProfile()
	case viewstate.TabConfessions:
		return m.openPost(true)
	}
	return m.openPost(false)
}

func (m Model) openPost(confession bool) (tea.Model, tea.Cmd) {
	if !m.ctrl.CanMutate("create a post") {
		return m, nil
	}
	title, hint := "New post", "What's on your mind?"
	if confession {
		title, hint = "New confession", "Posted anonymously"
	}
	ctrl := m.ctrl
	return m.openForm(title, []fieldSpec{
		{Label: "Content", Placeholder: hint},
	}, func(v []string) tea.Cmd {
		return m.run(func(ctx context.Context) error { return ctrl.CreatePost(ctx, v[0], confession) })
	})
}

func (m Model) openUpload() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanMutate("upload PYQs") {
		return m, nil
	}
	ctrl := m.ctrl
	return m.openForm("Upload PYQ", []fieldSpec{
		{Label: "Subject"},
		{Label: "Year", Placeholder: "2024", CharLimit: 4},
		{Label: "Exam type", Placeholder: model.ExamMidSem},
		{Label: "File", Placeholder: "path/to/paper.pdf"},
	}, func(v []string) tea.Cmd {
		return m.run(func(ctx context.Context) error {
			return uploadFile(ctx, ctrl, v[0], v[1], v[2], v[3])
		})
	})
}

// uploadFile opens the paper at path and uploads it. A missing path is
// passed on as a nil file so the controller reports the missing field.
func uploadFile(ctx context.Context, ctrl *viewstate.Controller, subject, year, examType, path string) error {
	form := viewstate.PYQForm{
		Subject:  subject,
		Year:     year,
		ExamType: strings.TrimSpace(examType),
	}
	if path = strings.TrimSpace(path); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open paper: %w", err)
		}
		defer f.Close()
		form.File = f
		form.FileName = filepath.Base(path)
	}
	return ctrl.UploadPYQ(ctx, form)
}

func (m Model) openListing() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanMutate("sell items") {
		return m, nil
	}
	ctrl := m.ctrl
	return m.openForm("Sell an item", []fieldSpec{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Price", Placeholder: "₹"},
		{Label: "Category", Placeholder: "Books"},
		{Label: "Image URL"},
	}, func(v []string) tea.Cmd {
		return m.run(func(ctx context.Context) error {
			return ctrl.CreateListing(ctx, viewstate.ListingForm{
				Title:       v[0],
				Description: v[1],
				Price:       v[2],
				Category:    v[3],
				ImageURL:    v[4],
			})
		})
	})
}

func (m Model) openAlumniProfile() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanMutate("create a profile") {
		return m, nil
	}
	ctrl := m.ctrl
	return m.openForm("Alumni profile", []fieldSpec{
		{Label: "Company"},
		{Label: "Job role"},
		{Label: "Years of experience", Placeholder: "0"},
		{Label: "Review"},
		{Label: "LinkedIn URL"},
	}, func(v []string) tea.Cmd {
		return m.run(func(ctx context.Context) error {
			years := 0
			if s := strings.TrimSpace(v[2]); s != "" {
				n, err := strconv.Atoi(s)
				if err != nil || n < 0 {
					return api.Validation("Years of experience must be a number")
				}
				years = n
			}
			return ctrl.CreateAlumniProfile(ctx, model.AlumniProfileRequest{
				Company:           v[0],
				JobRole:           v[1],
				YearsOfExperience: years,
				Review:            strings.TrimSpace(v[3]),
				LinkedInURL:       strings.TrimSpace(v[4]),
			})
		})
	})
}

// openCompose opens the message box for the active conversation, pre-filled
// with the draft.
func (m Model) openCompose() (tea.Model, tea.Cmd) {
	st := m.ctrl.State()
	if st.Tab != viewstate.TabMessages || st.PartnerID == 0 {
		return m, nil
	}
	if !m.ctrl.CanMutate("chat") {
		return m, nil
	}
	title := "Message"
	if st.PartnerName != "" {
		title = "Message " + st.PartnerName
	}
	ctrl := m.ctrl
	return m.openForm(title, []fieldSpec{
		{Label: "Message", Placeholder: "Type a message...", Value: st.Draft},
	}, func(v []string) tea.Cmd {
		ctrl.SetDraft(v[0])
		return m.run(func(ctx context.Context) error { return ctrl.SendMessage(ctx, v[0]) })
	})
}

func registerRequest(name, email, password string) model.RegisterRequest {
	return model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}
}
