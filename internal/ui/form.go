package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is one labelled input of a [form].
type field struct {
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs with a single focused field.
type form struct {
	title  string
	fields []field
	focus  int
}

func newForm(title string, labels ...string) form {
	f := form{title: title}
	for _, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 128
		if label == "Password" {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.fields = append(f.fields, field{label: label, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// set prefills the field labelled label.
func (f *form) set(label, value string) {
	for i := range f.fields {
		if f.fields[i].label == label {
			f.fields[i].input.SetValue(value)
		}
	}
}

// value returns the trimmed content of the field labelled label.
func (f form) value(label string) string {
	for _, fl := range f.fields {
		if fl.label == label {
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

// move shifts focus by delta, wrapping around.
func (f *form) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.move(1)
			return f, nil
		case "shift+tab", "up":
			f.move(-1)
			return f, nil
		}
	}
	if len(f.fields) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f form) view() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(f.title))
	b.WriteString("\n")
	for i, fl := range f.fields {
		label := fmt.Sprintf("%-9s", fl.label)
		if i == f.focus {
			label = styles.focus.Render(label)
		}
		fmt.Fprintf(&b, "%s %s\n", label, fl.input.View())
	}
	return b.String()
}
