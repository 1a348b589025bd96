// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
)

// =============================================================================
// FORM
// =============================================================================

// fieldSpec describes one input of a form.
type fieldSpec struct {
	Label       string
	Placeholder string
	Value       string
	Secret      bool
	CharLimit   int
}

// form is a stack of labeled text inputs. Enter on the last field submits.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	submit func(values []string) tea.Cmd
}

func newForm(title string, specs []fieldSpec, submit func(values []string) tea.Cmd) *form {
	f := &form{title: title, submit: submit}
	for _, s := range specs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = s.Placeholder
		in.SetValue(s.Value)
		in.CharLimit = s.CharLimit
		if s.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels = append(f.labels, s.Label)
		f.inputs = append(f.inputs, in)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// values returns the current input values.
func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f *form) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	i = (i%len(f.inputs) + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f *form) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

// update handles a key. done reports that the form was submitted or
// cancelled and should close.
func (f *form) update(msg tea.Msg, keys KeyMap) (cmd tea.Cmd, done bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Cancel):
			return nil, true
		case key.Matches(km, keys.Submit):
			if f.focus < len(f.inputs)-1 {
				f.setFocus(f.focus + 1)
				return nil, false
			}
			if f.submit == nil {
				return nil, true
			}
			return f.submit(f.values()), true
		case key.Matches(km, keys.NextField):
			f.setFocus(f.focus + 1)
			return nil, false
		case key.Matches(km, keys.PrevField):
			f.setFocus(f.focus - 1)
			return nil, false
		}
	}
	if len(f.inputs) == 0 {
		return nil, false
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false
}

func (f *form) view(theme *styles.Theme) string {
	var sb strings.Builder
	if f.title != "" {
		sb.WriteString(theme.Heading.Render(f.title))
		sb.WriteString("\n")
	}
	for i, in := range f.inputs {
		label := f.labels[i] + ": "
		if i == f.focus {
			sb.WriteString(theme.Prompt.Render(label))
		} else {
			sb.WriteString(theme.Muted.Render(label))
		}
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
