package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/auox/auox/internal/nav"
	"github.com/auox/auox/internal/sparebank"
	"github.com/auox/auox/internal/transfer"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// header, breadcrumb, blank, title, blank ... status, footer
	chromeRows = 7
)

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// renderMain renders header, breadcrumb, the top view and the footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumb())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the view on top of the stack.
func (m Model) renderContent() string {
	switch m.stack.Top() {
	case nav.AccountList:
		return m.renderAccounts()
	case nav.ActionMenu:
		return m.renderMenu()
	case nav.TransactionList:
		return m.renderTransactions()
	case nav.TransferAccountPicker:
		return m.renderPicker()
	case nav.TransferForm:
		return m.renderForm()
	default:
		return ""
	}
}

func (m Model) renderBreadcrumb() string {
	styles := m.theme.Styles()
	frames := m.stack.Frames()
	names := make([]string, len(frames))
	for i, v := range frames {
		if i == len(frames)-1 {
			names[i] = styles.AccentText.Bold(true).Render(v.String())
			continue
		}
		names[i] = styles.MutedText.Render(v.String())
	}
	return " " + strings.Join(names, styles.FaintText.Render(" › "))
}

func (m Model) listHeight() int {
	_, h := m.size()
	if rows := h - chromeRows; rows > 1 {
		return rows
	}
	return 1
}

func (m Model) renderAccounts() string {
	styles := m.theme.Styles()
	if len(m.visible) == 0 {
		if !m.feed.Loaded {
			return styles.MutedText.Render("  Fetching accounts...")
		}
		return styles.MutedText.Render("  No accounts to show. Press m to include credit cards.")
	}

	selected, _ := m.accountCursor.Selected()
	return m.renderAccountRows(selected, -1, m.prefs.ShowBalance)
}

// renderAccountRows lists the visible accounts with selected highlighted.
// marked is an index into feed.Accounts tagged as the transfer source.
func (m Model) renderAccountRows(selected, marked int, showBalance bool) string {
	styles := m.theme.Styles()
	width, _ := m.size()
	compact := width < LayoutCompactWidth

	start, end := windowRange(selected, len(m.visible), m.listHeight())
	lines := make([]string, 0, end-start)
	for row := start; row < end; row++ {
		idx := m.visible[row]
		a := m.feed.Accounts[idx]

		line := padRight(truncate(a.Name, 28), 28)
		if !compact {
			line += "  " + padRight(a.AccountNumber, 14)
		}
		balance := ""
		if showBalance {
			balance = "  " + padLeft(formatMoney(a.Balance, a.CurrencyCode), 18)
		}
		suffix := ""
		if idx == marked {
			suffix = "  (from)"
		}
		badge := ""
		if a.IsCreditCard() {
			badge = "  " + styles.Badge.Render("CARD")
		}

		if row == selected {
			lines = append(lines, styles.Selected.Render("▸ "+line+balance+suffix)+badge)
			continue
		}
		lines = append(lines, styles.Text.Render("  "+line)+styles.Amount(a.Balance).Render(balance)+
			styles.Text.Render(suffix)+badge)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMenu() string {
	styles := m.theme.Styles()

	var b strings.Builder
	if idx, ok := m.selectedAccount(); ok {
		a := m.feed.Accounts[idx]
		b.WriteString(styles.AccentText.Bold(true).Render("  " + a.Name))
		b.WriteString(styles.MutedText.Render("  " + a.AccountNumber))
		b.WriteString("\n\n")
	}

	selected, _ := m.menuCursor.Selected()
	for i, item := range menuItems {
		if i == selected {
			b.WriteString(styles.Selected.Render("▸ " + item.label))
		} else {
			b.WriteString(styles.Text.Render("  " + item.label))
		}
		if item.target == nav.TransactionList && m.pendingTxKey != "" {
			b.WriteString(styles.FaintText.Render("  loading..."))
		}
		if i < len(menuItems)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderTransactions() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("  " + m.txAccount)
	if len(m.transactions) == 0 {
		return title + "\n\n" + styles.MutedText.Render("  No transactions.")
	}

	selected, _ := m.txCursor.Selected()
	start, end := windowRange(selected, len(m.transactions), m.listHeight()-2)
	lines := make([]string, 0, end-start+2)
	lines = append(lines, title, "")
	for row := start; row < end; row++ {
		tx := m.transactions[row]
		line := padRight(formatDate(tx.Time()), 12) +
			padRight(truncate(tx.Description, 36), 36) + "  "
		amount := padLeft(formatMoney(tx.Amount, tx.CurrencyCode), 16)

		if row == selected {
			lines = append(lines, styles.Selected.Render("▸ "+line+amount))
			continue
		}
		lines = append(lines, styles.Text.Render("  "+line)+styles.Amount(tx.Amount).Render(amount))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPicker() string {
	styles := m.theme.Styles()

	from := -1
	title := "  Transfer to:"
	if idx, ok := m.draft.Source(); ok && idx < len(m.feed.Accounts) {
		from = idx
		title = "  Transfer from " + m.feed.Accounts[idx].Name + " to:"
	}

	if len(m.visible) == 0 {
		return styles.AccentText.Bold(true).Render(title) + "\n\n" + styles.MutedText.Render("  No accounts to show.")
	}
	selected, _ := m.pickerCursor.Selected()
	return styles.AccentText.Bold(true).Render(title) + "\n\n" + m.renderAccountRows(selected, from, true)
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 10)) }

	var b strings.Builder
	b.WriteString(label("From") + m.accountLabel(m.draft.Source()) + "\n")
	b.WriteString(label("To") + m.accountLabel(m.draft.Destination()) + "\n\n")

	marker := func(f transfer.Field) string {
		if m.draft.Active() == f {
			return styles.AccentText.Render("▸ ")
		}
		return "  "
	}
	b.WriteString(marker(transfer.FieldAmount) + label("Amount") + m.draft.Amount.View() + "\n")
	if m.destinationIsCard() {
		b.WriteString(marker(transfer.FieldMessage) + label("Message") +
			styles.FaintText.Render("not sent for credit card payments") + "\n")
	} else {
		b.WriteString(marker(transfer.FieldMessage) + label("Message") + m.draft.Message.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(styles.WarningText.Render("  Sending transfer..."))
	case len(m.transferErrors) > 0:
		b.WriteString(m.renderTransferErrors())
	default:
		if _, err := transfer.Prepare(m.draft, m.feed.Accounts); err != nil {
			b.WriteString(styles.FaintText.Render("  " + err.Error()))
		} else {
			b.WriteString(styles.FaintText.Render("  Press enter to send"))
		}
	}
	return b.String()
}

func (m Model) renderTransferErrors() string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.transferErrors))
	for _, e := range m.transferErrors {
		line := styles.DangerText.Render("  "+e.Code) + " " + styles.Text.Render(e.Text())
		var meta []string
		if e.HTTPCode != 0 {
			meta = append(meta, fmt.Sprintf("http %d", e.HTTPCode))
		}
		if e.TraceID != "" {
			meta = append(meta, "trace "+e.TraceID)
		}
		if len(meta) > 0 {
			line += " " + styles.FaintText.Render("("+strings.Join(meta, ", ")+")")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) accountLabel(idx int, ok bool) string {
	styles := m.theme.Styles()
	if !ok || idx >= len(m.feed.Accounts) {
		return styles.FaintText.Render("not chosen")
	}
	a := m.feed.Accounts[idx]
	return styles.Text.Render(a.Name) + styles.MutedText.Render("  "+accountRef(a))
}

func accountRef(a sparebank.Account) string {
	if a.IsCreditCard() {
		return "credit card"
	}
	return a.AccountNumber
}

func (m Model) destinationIsCard() bool {
	idx, ok := m.draft.Destination()
	return ok && idx < len(m.feed.Accounts) && m.feed.Accounts[idx].IsCreditCard()
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	switch {
	case m.lastError != nil:
		return styles.DangerText.Render(" " + m.lastError.Error())
	case m.feed.LastError != nil && m.feed.Loaded:
		return styles.WarningText.Render(" " + m.feed.LastError.Error())
	case m.notice != "":
		return styles.SuccessText.Render(" " + m.notice)
	default:
		return ""
	}
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	line := " " + m.help.ShortHelpView(m.contextBindings())
	if m.holdActive {
		line += "   " + styles.DangerText.Render("Quitting ") + m.progress.ViewAs(m.holdProgress)
	}
	return line
}

// contextBindings returns the bindings worth showing for the top view.
func (m Model) contextBindings() []key.Binding {
	k := m.keys
	switch m.stack.Top() {
	case nav.AccountList:
		return []key.Binding{k.Up, k.Down, k.Confirm, k.ToggleBalance, k.ToggleCreditCards, k.Help, k.Quit}
	case nav.ActionMenu, nav.TransferAccountPicker:
		return []key.Binding{k.Up, k.Down, k.Confirm, k.Back, k.ToggleCreditCards, k.Quit}
	case nav.TransactionList:
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	case nav.TransferForm:
		return []key.Binding{k.NextField, k.Submit, k.Back, k.ForceQuit}
	default:
		return k.ShortHelp()
	}
}

// renderShutdown fades the farewell out over ShutdownDuration.
func (m Model) renderShutdown() string {
	width, height := m.size()
	elapsed := m.now().Sub(m.exitStart)

	style := m.theme.Styles().AccentText.Bold(true)
	switch {
	case elapsed > ShutdownDuration*2/3:
		style = m.theme.Styles().FaintText
	case elapsed > ShutdownDuration/3:
		style = m.theme.Styles().MutedText
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, style.Render("Ha det bra!"))
}
