package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/auox/auox/internal/nav"
	"github.com/auox/auox/internal/transfer"
)

// handleKey routes a key by the view on top of the stack. The transfer form
// receives keys before the global bindings so letters stay ordinary text there.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.startShutdown("ctrl+c")
		return nil
	}
	if m.exiting {
		return nil
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return nil
	}

	top := m.stack.Top()
	if top != nav.TransferForm && m.handleGlobalKey(msg) {
		return nil
	}

	switch top {
	case nav.AccountList:
		return m.handleAccountListKey(msg)
	case nav.ActionMenu:
		return m.handleMenuKey(msg)
	case nav.TransactionList:
		return m.handleTransactionsKey(msg)
	case nav.TransferAccountPicker:
		return m.handlePickerKey(msg)
	case nav.TransferForm:
		return m.handleFormKey(msg)
	}
	return nil
}

// handleGlobalKey handles bindings shared by every list view and reports
// whether msg was consumed.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.hold.Press(m.now())

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleCreditCards):
		m.prefs.ShowCreditCards = !m.prefs.ShowCreditCards
		m.savePrefs()
		m.syncCursors()

	case key.Matches(msg, m.keys.Back):
		if m.stack.Pop() && m.stack.Top() == nav.AccountList {
			m.pendingTxKey = ""
			m.lastError = nil
		}

	default:
		return false
	}
	return true
}

func (m *Model) handleAccountListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.accountCursor.Prev()
	case key.Matches(msg, m.keys.Down):
		m.accountCursor.Next()
	case key.Matches(msg, m.keys.Confirm):
		if _, ok := m.selectedAccount(); ok {
			m.menuCursor.Select(0)
			m.lastError = nil
			m.notice = ""
			m.stack.Push(nav.ActionMenu)
		}
	case key.Matches(msg, m.keys.ToggleBalance):
		m.prefs.ShowBalance = !m.prefs.ShowBalance
		m.savePrefs()
	}
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuCursor.Prev()
	case key.Matches(msg, m.keys.Down):
		m.menuCursor.Next()
	case key.Matches(msg, m.keys.Confirm):
		return m.activateMenuItem()
	}
	return nil
}

func (m *Model) activateMenuItem() tea.Cmd {
	i, ok := m.menuCursor.Selected()
	if !ok {
		return nil
	}
	idx, ok := m.selectedAccount()
	if !ok {
		return nil
	}
	account := m.feed.Accounts[idx]
	item := menuItems[i]

	switch item.target {
	case nav.TransactionList:
		if m.pendingTxKey != "" || m.bank == nil {
			return nil
		}
		m.pendingTxKey = account.Key
		m.lastError = nil
		return m.fetchTransactionsCmd(account)

	case nav.TransferAccountPicker:
		m.draft.SetSource(idx)
		m.transferErrors = nil
		m.pickerCursor.Select(0)
		m.stack.Push(nav.TransferAccountPicker)

	default:
		m.stack.Push(item.target)
	}
	return nil
}

func (m *Model) handleTransactionsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.txCursor.Prev()
	case key.Matches(msg, m.keys.Down):
		m.txCursor.Next()
	}
	return nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pickerCursor.Prev()
	case key.Matches(msg, m.keys.Down):
		m.pickerCursor.Next()
	case key.Matches(msg, m.keys.Confirm):
		if idx, ok := m.resolve(m.pickerCursor); ok {
			m.draft.SetDestination(idx)
			m.stack.Push(nav.TransferForm)
		}
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stack.Pop()
		return nil
	case key.Matches(msg, m.keys.NextField):
		m.draft.ToggleField()
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitTransfer()
	}
	return m.draft.Update(msg)
}

// submitTransfer validates the draft and, when it is complete, sends it.
// An incomplete draft is left as is and nothing is sent.
func (m *Model) submitTransfer() tea.Cmd {
	if m.submitting || m.bank == nil {
		return nil
	}
	if _, err := transfer.Prepare(m.draft, m.feed.Accounts); err != nil {
		m.logger.Debug("transfer not submitted", "reason", err)
		return nil
	}
	m.submitting = true
	m.transferErrors = nil
	return m.submitTransferCmd()
}
