package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/auox/auox/internal/gesture"
	"github.com/auox/auox/internal/logging"
	"github.com/auox/auox/internal/nav"
	"github.com/auox/auox/internal/prefs"
	"github.com/auox/auox/internal/sparebank"
	"github.com/auox/auox/internal/state"
	"github.com/auox/auox/internal/transfer"
)

// Bank is the part of the bank API the UI calls.
type Bank interface {
	FetchAccounts(ctx context.Context) ([]sparebank.Account, error)
	FetchTransactions(ctx context.Context, accountKey string) ([]sparebank.Transaction, error)
	transfer.Submitter
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Bank      Bank
	Logger    *log.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	Now       func() time.Time // nil uses time.Now
}

type menuItem struct {
	label  string
	target nav.View
}

var menuItems = []menuItem{
	{label: "Transactions", target: nav.TransactionList},
	{label: "Transfer from", target: nav.TransferAccountPicker},
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	bank      Bank
	logger    *log.Logger
	prefsPath string
	now       func() time.Time

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	progress progress.Model
	prefs    prefs.Prefs
	width    int
	height   int
	showHelp bool

	// Navigation. visible holds indices into feed.Accounts after the
	// credit-card filter; the account and picker cursors range over it.
	stack         nav.Stack
	visible       []int
	accountCursor nav.Cursor
	menuCursor    nav.Cursor
	pickerCursor  nav.Cursor
	txCursor      nav.Cursor

	// Data state
	feed         state.AccountFeed
	transactions []sparebank.Transaction
	txAccount    string
	pendingTxKey string
	lastError    error
	notice       string

	// Transfer
	draft          transfer.Draft
	transferErrors []sparebank.APIError
	submitting     bool

	// Quit
	hold         gesture.Hold
	holdProgress float64
	holdActive   bool
	exiting      bool
	exitStart    time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:        ctx,
		bank:       opts.Bank,
		logger:     logger.WithPrefix("ui"),
		prefsPath:  prefsPath,
		now:        now,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		prefs:      opts.Prefs,
		stack:      nav.NewStack(),
		menuCursor: nav.NewCursor(len(menuItems)),
		draft:      transfer.NewDraft(),
		hold:       gesture.NewHold(gesture.DefaultThreshold, gesture.DefaultSlack),
	}
	m.applyTheme(GetTheme(opts.Prefs.Theme))
	m.syncCursors()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), m.fetchAccountsCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.syncCursors()
		cmd := m.handleKey(msg)
		m.syncCursors()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		return m.handleFrame()

	case accountsLoadedMsg:
		return m.handleAccountsLoaded(msg)

	case retryAccountsMsg:
		return m, m.fetchAccountsCmd()

	case transactionsLoadedMsg:
		m.handleTransactionsLoaded(msg)
		m.syncCursors()
		return m, nil

	case transferDoneMsg:
		return m.handleTransferDone(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.exiting {
		return m.renderShutdown()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleFrame advances the quit gesture and the shutdown fade.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	now := m.now()

	if m.exiting {
		if now.Sub(m.exitStart) >= ShutdownDuration {
			return m, tea.Quit
		}
		return m, frameCmd()
	}

	if m.stack.Top() == nav.TransferForm {
		m.hold.Reset()
		m.holdActive, m.holdProgress = false, 0
		return m, frameCmd()
	}

	quit, p, active := m.hold.Tick(now)
	m.holdActive, m.holdProgress = active, p
	if quit {
		m.startShutdown("quit key held")
	}
	return m, frameCmd()
}

func (m *Model) startShutdown(reason string) {
	if m.exiting {
		return
	}
	m.exiting = true
	m.exitStart = m.now()
	m.hold.Reset()
	m.holdActive, m.holdProgress = false, 0
	m.logger.Info("shutting down", "reason", reason)
}

func (m Model) handleAccountsLoaded(msg accountsLoadedMsg) (tea.Model, tea.Cmd) {
	m.feed.Update(msg.accounts, msg.err, m.now())
	if msg.err != nil {
		delay := calculateBackoff(m.feed.ConsecutiveFailures-1, AccountsRetryBase)
		m.logger.Warn("fetch accounts failed", "err", msg.err, "failures", m.feed.ConsecutiveFailures, "retry_in", delay)
		return m, retryAccountsCmd(delay)
	}
	m.logger.Debug("accounts loaded", "count", len(msg.accounts))
	m.syncCursors()
	return m, nil
}

func (m *Model) handleTransactionsLoaded(msg transactionsLoadedMsg) {
	if msg.key == "" || msg.key != m.pendingTxKey {
		return
	}
	m.pendingTxKey = ""
	if msg.err != nil {
		m.lastError = fmt.Errorf("load transactions: %w", msg.err)
		m.logger.Warn("fetch transactions failed", "account", msg.key, "err", msg.err)
		return
	}
	if m.stack.Top() != nav.ActionMenu {
		return
	}
	m.transactions = msg.transactions
	m.txAccount = msg.name
	m.txCursor = nav.NewCursor(len(msg.transactions))
	m.stack.Push(nav.TransactionList)
}

func (m Model) handleTransferDone(msg transferDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	switch {
	case !msg.submitted:
		m.logger.Debug("transfer not submitted", "reason", msg.err)
		return m, nil

	case msg.err != nil:
		m.logger.Error("transfer request failed", "err", msg.err)
		m.transferErrors = transfer.FailedOutcome(msg.err).Errors
		return m, nil

	case !msg.outcome.Success():
		for _, e := range msg.outcome.Errors {
			m.logger.Error("transfer rejected",
				"code", e.Code,
				"message", e.Message,
				"http_code", e.HTTPCode,
				"trace_id", e.TraceID,
			)
		}
		m.transferErrors = msg.outcome.Errors
		return m, nil
	}

	m.logger.Info("transfer accepted", "payment_id", msg.outcome.PaymentID, "status", msg.outcome.Status)
	m.notice = "Transfer sent"
	if msg.outcome.PaymentID != "" {
		m.notice += " (payment " + msg.outcome.PaymentID + ")"
	}
	m.draft.Reset()
	m.transferErrors = nil
	m.stack.Reset()
	m.syncCursors()
	return m, m.fetchAccountsCmd()
}

// syncCursors recomputes the filtered account list. The account and picker
// cursors follow the account they pointed at into the new list and are only
// clamped when that account is no longer shown.
func (m *Model) syncCursors() {
	account, accountOK := m.resolve(m.accountCursor)
	picked, pickedOK := m.resolve(m.pickerCursor)

	m.visible = m.feed.Visible(m.prefs.ShowCreditCards)
	m.rebase(&m.accountCursor, account, accountOK)
	m.rebase(&m.pickerCursor, picked, pickedOK)
	m.menuCursor.SetLength(len(menuItems))
	m.txCursor.SetLength(len(m.transactions))
}

// rebase moves c onto account's row in the visible list when it is there.
func (m *Model) rebase(c *nav.Cursor, account int, ok bool) {
	c.SetLength(len(m.visible))
	if !ok {
		return
	}
	for row, idx := range m.visible {
		if idx == account {
			c.Select(row)
			return
		}
	}
}

// selectedAccount returns the index into feed.Accounts under the account cursor.
func (m Model) selectedAccount() (int, bool) {
	return m.resolve(m.accountCursor)
}

func (m Model) resolve(c nav.Cursor) (int, bool) {
	i, ok := c.Selected()
	if !ok || i >= len(m.visible) {
		return 0, false
	}
	return m.visible[i], true
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	styles := t.Styles()
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.AccentText
	m.help.Styles.FullDesc = styles.MutedText
	m.help.Styles.FullSeparator = styles.FaintText
	m.progress = progress.New(
		progress.WithSolidFill(t.Danger),
		progress.WithoutPercentage(),
		progress.WithWidth(24),
	)
}

func (m Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "err", err)
	}
}

// Messages

type frameMsg time.Time

type accountsLoadedMsg struct {
	accounts []sparebank.Account
	err      error
}

type retryAccountsMsg struct{}

type transactionsLoadedMsg struct {
	key          string
	name         string
	transactions []sparebank.Transaction
	err          error
}

type transferDoneMsg struct {
	outcome   transfer.Outcome
	submitted bool
	err       error
}

// Commands

func frameCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func retryAccountsCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return retryAccountsMsg{}
	})
}

func (m Model) fetchAccountsCmd() tea.Cmd {
	if m.bank == nil {
		return nil
	}
	ctx, bank := m.ctx, m.bank
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		accounts, err := bank.FetchAccounts(ctx)
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m Model) fetchTransactionsCmd(account sparebank.Account) tea.Cmd {
	ctx, bank := m.ctx, m.bank
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		txs, err := bank.FetchTransactions(ctx, account.Key)
		return transactionsLoadedMsg{key: account.Key, name: account.Name, transactions: txs, err: err}
	}
}

func (m Model) submitTransferCmd() tea.Cmd {
	ctx, bank, draft, accounts := m.ctx, m.bank, m.draft, m.feed.Accounts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		outcome, submitted, err := transfer.Submit(ctx, bank, draft, accounts)
		return transferDoneMsg{outcome: outcome, submitted: submitted, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
