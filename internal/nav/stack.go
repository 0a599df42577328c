package nav

// View is one screen of the navigation stack.
type View int

const (
	AccountList View = iota
	ActionMenu
	TransactionList
	TransferAccountPicker
	TransferForm
)

func (v View) String() string {
	switch v {
	case AccountList:
		return "accounts"
	case ActionMenu:
		return "menu"
	case TransactionList:
		return "transactions"
	case TransferAccountPicker:
		return "transfer to"
	case TransferForm:
		return "transfer"
	default:
		return "unknown"
	}
}

// Stack holds the open views. It is never empty and AccountList is always at
// the bottom.
type Stack struct {
	frames []View
}

// NewStack returns a stack holding only AccountList.
func NewStack() Stack {
	return Stack{frames: []View{AccountList}}
}

// Push opens v on top.
func (s *Stack) Push(v View) {
	s.ensureRoot()
	s.frames = append(s.frames, v)
}

// Pop closes the top view and reports whether it did. The root frame stays.
func (s *Stack) Pop() bool {
	s.ensureRoot()
	if len(s.frames) <= 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Top returns the visible view.
func (s Stack) Top() View {
	if len(s.frames) == 0 {
		return AccountList
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of open views.
func (s Stack) Depth() int {
	if len(s.frames) == 0 {
		return 1
	}
	return len(s.frames)
}

// Reset collapses the stack to the account list.
func (s *Stack) Reset() {
	s.frames = []View{AccountList}
}

// Frames returns a copy of the open views, bottom first.
func (s Stack) Frames() []View {
	if len(s.frames) == 0 {
		return []View{AccountList}
	}
	return append([]View(nil), s.frames...)
}

func (s *Stack) ensureRoot() {
	if len(s.frames) == 0 {
		s.frames = []View{AccountList}
	}
}
