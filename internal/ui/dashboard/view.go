// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/uniconnect/uniconnect-tui/internal/ui/components"
	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	if m.screen == screenLogin {
		return m.loginView()
	}
	return m.dashboardView()
}

func (m Model) dashboardView() string {
	var sections []string

	sections = append(sections, m.header.View(m.store.Snapshot()))
	sections = append(sections, m.tabs.View(tabIndex(m.ctrl.State().Tab), m.width))

	status := m.spinner.View()
	if status == "" {
		status = m.theme.Muted.Render(m.ctrl.State().Tab.Title())
	}
	sections = append(sections, m.theme.StatusBar.Render(status))

	sections = append(sections, m.viewport.View())

	if panel := m.panelView(); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, m.theme.Hint.Render(m.hints()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// panelView renders the prompt, form or help below the body. Toasts show
// when nothing else is open.
func (m Model) panelView() string {
	switch m.mode {
	case modeForm:
		if m.form != nil {
			return m.form.view(m.theme)
		}
	case modeConfirm:
		if m.confirm != nil {
			return m.theme.Prompt.Render(m.confirm.prompt) + " " + m.theme.Muted.Render("[y/n]")
		}
	case modeHelp:
		return m.helpText
	}
	return components.RenderToastStack(m.toasts.Toasts(), m.width)
}

func (m Model) hints() string {
	switch m.mode {
	case modeForm:
		return "enter next/submit • tab switch field • esc cancel"
	case modeConfirm:
		return "y confirm • n cancel"
	case modeHelp:
		return "? close help"
	}
	return "1-8 tabs • ↑/↓ select • enter run • / search • n new • r reload • ? help • q quit"
}

func (m Model) loginView() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderBrand.Render(components.Brand))
	sb.WriteString("\n\n")
	if m.notice != "" {
		sb.WriteString(m.theme.Muted.Render(styles.StatusIndicators.Info + " " + m.notice))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.login.view(m.theme))
	sb.WriteString("\n")
	if m.loginErr != "" {
		sb.WriteString("\n")
		sb.WriteString(m.theme.Error.Render(styles.StatusIndicators.Error + " " + m.loginErr))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	toggle := "ctrl+r create account"
	if m.registering {
		toggle = "ctrl+r back to login"
	}
	sb.WriteString(m.theme.Hint.Render("enter submit • " + toggle + " • ctrl+g continue as guest • ctrl+c quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}
