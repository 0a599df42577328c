package transfer

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Field is the form input that receives typed characters.
type Field int

const (
	FieldAmount Field = iota
	FieldMessage
)

func (f Field) String() string {
	if f == FieldMessage {
		return "message"
	}
	return "amount"
}

const (
	amountCharLimit  = 20
	messageCharLimit = 140
)

// Draft is the unsubmitted transfer form. Source and destination are indices
// into the full accounts list; -1 means not chosen.
type Draft struct {
	from, to int

	Amount  textinput.Model
	Message textinput.Model
	active  Field
}

// NewDraft returns an empty draft with the amount field active.
func NewDraft() Draft {
	amount := textinput.New()
	amount.Prompt = ""
	amount.Placeholder = "0,00"
	amount.CharLimit = amountCharLimit
	amount.KeyMap.Paste.SetEnabled(false)
	amount.Cursor.SetMode(cursor.CursorStatic)

	message := textinput.New()
	message.Prompt = ""
	message.Placeholder = "optional"
	message.CharLimit = messageCharLimit
	message.Cursor.SetMode(cursor.CursorStatic)

	d := Draft{from: -1, to: -1, Amount: amount, Message: message}
	d.focus()
	return d
}

// SetSource records the account money is taken from.
func (d *Draft) SetSource(i int) { d.from = i }

// SetDestination records the account money goes to.
func (d *Draft) SetDestination(i int) { d.to = i }

// Source returns the source index, if chosen.
func (d Draft) Source() (int, bool) { return d.from, d.from >= 0 }

// Destination returns the destination index, if chosen.
func (d Draft) Destination() (int, bool) { return d.to, d.to >= 0 }

// Active returns the field receiving input.
func (d Draft) Active() Field { return d.active }

// ToggleField moves input to the other field.
func (d *Draft) ToggleField() {
	if d.active == FieldAmount {
		d.active = FieldMessage
	} else {
		d.active = FieldAmount
	}
	d.focus()
}

// Update routes a key to the active field. The amount field drops every
// character except digits and the two decimal separators and ignores pastes.
func (d *Draft) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch d.active {
	case FieldAmount:
		if msg.Type == tea.KeySpace {
			return nil
		}
		if msg.Type == tea.KeyRunes {
			if msg.Paste {
				return nil
			}
			msg.Runes = amountRunes(msg.Runes)
			if len(msg.Runes) == 0 {
				return nil
			}
		}
		d.Amount, cmd = d.Amount.Update(msg)
	case FieldMessage:
		d.Message, cmd = d.Message.Update(msg)
	}
	return cmd
}

// Reset clears both inputs and both selections and activates the amount field.
func (d *Draft) Reset() {
	d.from, d.to = -1, -1
	d.Amount.Reset()
	d.Message.Reset()
	d.active = FieldAmount
	d.focus()
}

// AmountText returns the raw amount input.
func (d Draft) AmountText() string { return d.Amount.Value() }

// MessageText returns the raw message input.
func (d Draft) MessageText() string { return d.Message.Value() }

func (d *Draft) focus() {
	if d.active == FieldAmount {
		d.Message.Blur()
		_ = d.Amount.Focus()
		return
	}
	d.Amount.Blur()
	_ = d.Message.Focus()
}

func amountRunes(in []rune) []rune {
	out := in[:0:0]
	for _, r := range in {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			out = append(out, r)
		}
	}
	return out
}
