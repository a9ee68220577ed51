package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// lineInput is a single-line text field edited in place.
type lineInput struct {
	Prompt string
	value  []rune
}

func newLineInput(prompt, initial string) lineInput {
	return lineInput{Prompt: prompt, value: []rune(initial)}
}

// Value returns the current text.
func (in lineInput) Value() string {
	return string(in.value)
}

// inputResult reports what a key did to the field.
type inputResult int

const (
	inputEdited inputResult = iota
	inputSubmitted
	inputCanceled
	inputIgnored
)

// HandleKey applies msg to the field.
func (in *lineInput) HandleKey(msg tea.KeyMsg) inputResult {
	switch msg.Type {
	case tea.KeyEnter:
		return inputSubmitted
	case tea.KeyEsc:
		return inputCanceled
	case tea.KeyBackspace:
		if len(in.value) > 0 {
			in.value = in.value[:len(in.value)-1]
		}
		return inputEdited
	case tea.KeyCtrlU:
		in.value = nil
		return inputEdited
	case tea.KeySpace:
		in.value = append(in.value, ' ')
		return inputEdited
	case tea.KeyRunes:
		in.value = append(in.value, msg.Runes...)
		return inputEdited
	}
	return inputIgnored
}

// View renders the prompt and value with a block cursor.
func (in lineInput) View() string {
	return in.Prompt + string(in.value) + "█"
}
