package extract

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selection-capture/src/accessibility"
	"selection-capture/src/gesture"
	"selection-capture/src/profile"
)

// fakeBoard is an in-memory clipboard with the same change-count semantics as
// the system one: every write, including our own, bumps the counter.
type fakeBoard struct {
	content   string
	count     atomic.Uint64
	failWrite bool
	writes    []string
}

func (b *fakeBoard) Read() string { return b.content }

func (b *fakeBoard) Write(text string) error {
	if b.failWrite {
		return errors.New("pasteboard write denied")
	}
	b.content = text
	b.writes = append(b.writes, text)
	b.count.Add(1)
	return nil
}

func (b *fakeBoard) Clear() error { return b.Write("") }

func (b *fakeBoard) ChangeCount() uint64 { return b.count.Load() }

// fakeSynth simulates the host answering a copy shortcut by writing into the
// board.
type fakeSynth struct {
	board  *fakeBoard
	copies string
	err    error
	called bool
}

func (s *fakeSynth) CopyShortcut() error {
	s.called = true
	if s.err != nil {
		return s.err
	}
	if s.copies != "" {
		s.board.content = s.copies
		s.board.count.Add(1)
	}
	return nil
}

// fakeProvider serves attributes for a single focused element.
type fakeProvider struct {
	focused bool
	attrs   map[string]string
}

func (p *fakeProvider) Focused() (accessibility.Handle, bool) {
	if !p.focused {
		return nil, false
	}
	return "element", true
}

func (p *fakeProvider) Attribute(_ accessibility.Handle, name string) (string, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// fakeSurface exposes a fixed command list; invoking the copy command writes
// into the board the way a host application would.
type fakeSurface struct {
	cmds    []accessibility.Command
	cmdsErr error
	board   *fakeBoard
	copies  string
	invoked []string
}

func (s *fakeSurface) Commands(string) ([]accessibility.Command, error) {
	return s.cmds, s.cmdsErr
}

func (s *fakeSurface) Invoke(cmd accessibility.Command) error {
	s.invoked = append(s.invoked, cmd.ID)
	if s.copies != "" {
		s.board.content = s.copies
		s.board.count.Add(1)
	}
	return nil
}

func strongGesture() *gesture.Record {
	return &gesture.Record{
		MouseDown: gesture.Point{X: 100, Y: 100},
		MouseUp:   gesture.Point{X: 400, Y: 105},
		Duration:  400 * time.Millisecond,
	}
}

func weakGesture() *gesture.Record {
	return &gesture.Record{
		MouseDown: gesture.Point{X: 100, Y: 100},
		MouseUp:   gesture.Point{X: 104, Y: 100},
		Duration:  100 * time.Millisecond,
	}
}

func fastPoll() (time.Duration, int) { return time.Millisecond, 3 }

func TestGestureEvidence(t *testing.T) {
	gate := profile.Gate{MinDistance: 10, MinDuration: 500 * time.Millisecond}

	for _, tc := range []struct {
		name string
		ec   Context
		want bool
	}{
		{"ungated always passes", Context{Gesture: nil}, true},
		{"gated without gesture fails", Context{Gate: gate}, false},
		{"distance satisfies gate", Context{Gate: gate, Gesture: strongGesture()}, true},
		{"duration alone satisfies gate", Context{
			Gate: gate,
			Gesture: &gesture.Record{
				MouseDown: gesture.Point{X: 100, Y: 100},
				MouseUp:   gesture.Point{X: 104, Y: 100},
				Duration:  700 * time.Millisecond,
			},
		}, true},
		{"weak gesture fails gate", Context{Gate: gate, Gesture: weakGesture()}, false},
	} {
		ec := tc.ec
		assert.Equal(t, tc.want, ec.GestureEvidence(), tc.name)
	}
}

func TestIntrospectionSelectedText(t *testing.T) {
	s := Introspection{Provider: &fakeProvider{
		focused: true,
		attrs:   map[string]string{accessibility.AttrSelectedText: "hello world"},
	}}

	text, err := s.Attempt(context.Background(), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestIntrospectionRangeFallback(t *testing.T) {
	s := Introspection{Provider: &fakeProvider{
		focused: true,
		attrs: map[string]string{
			accessibility.AttrSelectedRange: "4,5",
			accessibility.AttrValue:         "the quick brown fox",
		},
	}}

	text, err := s.Attempt(context.Background(), &Context{})
	require.NoError(t, err)
	assert.Equal(t, "quick", text)
}

func TestIntrospectionNoFocus(t *testing.T) {
	s := Introspection{Provider: &fakeProvider{focused: false}}

	_, err := s.Attempt(context.Background(), &Context{})
	assert.ErrorIs(t, err, accessibility.ErrNoFocus)
}

func TestIntrospectionNoAttributes(t *testing.T) {
	s := Introspection{Provider: &fakeProvider{focused: true, attrs: map[string]string{}}}

	_, err := s.Attempt(context.Background(), &Context{})
	assert.ErrorIs(t, err, ErrAttributeMissing)
}

func TestIntrospectionWhitespaceSelectionFallsThrough(t *testing.T) {
	s := Introspection{Provider: &fakeProvider{
		focused: true,
		attrs:   map[string]string{accessibility.AttrSelectedText: "   "},
	}}

	_, err := s.Attempt(context.Background(), &Context{})
	assert.Error(t, err)
}

func TestSliceByRange(t *testing.T) {
	for _, tc := range []struct {
		name    string
		value   string
		rng     string
		want    string
		wantErr bool
	}{
		{"simple", "hello world", "6,5", "world", false},
		{"clamped past end", "hello", "3,100", "lo", false},
		{"multibyte runes", "héllo wörld", "6,5", "wörld", false},
		{"start beyond value", "short", "10,3", "", true},
		{"zero length", "hello", "2,0", "", true},
		{"negative start", "hello", "-1,3", "", true},
		{"malformed", "hello", "nonsense", "", true},
		{"missing comma", "hello", "3", "", true},
	} {
		got, err := sliceByRange(tc.value, tc.rng)
		if tc.wantErr {
			assert.Error(t, err, tc.name)
		} else {
			require.NoError(t, err, tc.name)
			assert.Equal(t, tc.want, got, tc.name)
		}
	}
}

func TestKeyCopySuccessRestoresClipboard(t *testing.T) {
	board := &fakeBoard{content: "previous content"}
	synth := &fakeSynth{board: board, copies: "selected text"}
	interval, attempts := fastPoll()
	s := KeyCopy{Board: board, Synth: synth, PollInterval: interval, PollAttempts: attempts}

	text, err := s.Attempt(context.Background(), &Context{Gesture: strongGesture(), Gate: profile.Gate{MinDistance: 10}})

	require.NoError(t, err)
	assert.Equal(t, "selected text", text)
	assert.True(t, synth.called)
	assert.Equal(t, "previous content", board.Read())
}

func TestKeyCopyGatedWithoutEvidence(t *testing.T) {
	board := &fakeBoard{content: "previous content"}
	synth := &fakeSynth{board: board, copies: "should never appear"}
	s := KeyCopy{Board: board, Synth: synth}

	_, err := s.Attempt(context.Background(), &Context{
		Gesture: weakGesture(),
		Gate:    profile.Gate{MinDistance: 10, MinDuration: 500 * time.Millisecond},
	})

	assert.ErrorIs(t, err, ErrGestureEvidence)
	assert.False(t, synth.called)
	// The clipboard was never touched.
	assert.Equal(t, "previous content", board.Read())
	assert.Empty(t, board.writes)
}

func TestKeyCopyHostNeverAnswers(t *testing.T) {
	board := &fakeBoard{content: "previous content"}
	synth := &fakeSynth{board: board} // shortcut lands, nothing copied
	interval, attempts := fastPoll()
	s := KeyCopy{Board: board, Synth: synth, PollInterval: interval, PollAttempts: attempts}

	_, err := s.Attempt(context.Background(), &Context{Gesture: strongGesture(), Gate: profile.Gate{MinDistance: 10}})

	assert.ErrorIs(t, err, ErrClipboardUnchanged)
	assert.Equal(t, "previous content", board.Read())
}

func TestKeyCopySynthFailureRestoresClipboard(t *testing.T) {
	board := &fakeBoard{content: "previous content"}
	synth := &fakeSynth{board: board, err: errors.New("injection blocked")}
	interval, attempts := fastPoll()
	s := KeyCopy{Board: board, Synth: synth, PollInterval: interval, PollAttempts: attempts}

	_, err := s.Attempt(context.Background(), &Context{Gesture: strongGesture(), Gate: profile.Gate{MinDistance: 10}})

	assert.Error(t, err)
	assert.Equal(t, "previous content", board.Read())
}

func TestMenuCopySuccess(t *testing.T) {
	board := &fakeBoard{content: "previous content"}
	surface := &fakeSurface{
		cmds: []accessibility.Command{
			{ID: "copy-link", Label: "Copy Link"},
			{ID: "copy", Label: "Copy"},
		},
		board:  board,
		copies: "selected text",
	}
	interval, attempts := fastPoll()
	s := MenuCopy{Surface: surface, Board: board, PollInterval: interval, PollAttempts: attempts}

	text, err := s.Attempt(context.Background(), &Context{App: "slack"})

	require.NoError(t, err)
	assert.Equal(t, "selected text", text)
	// The excluded "Copy Link" entry was skipped.
	assert.Equal(t, []string{"copy"}, surface.invoked)
	assert.Equal(t, "previous content", board.Read())
}

func TestMenuCopyNoCopyCommand(t *testing.T) {
	board := &fakeBoard{content: "previous content"}
	surface := &fakeSurface{
		cmds: []accessibility.Command{
			{ID: "paste", Label: "Paste"},
			{ID: "copy-url", Label: "Copy URL"},
		},
		board: board,
	}
	s := MenuCopy{Surface: surface, Board: board}

	_, err := s.Attempt(context.Background(), &Context{App: "slack"})

	assert.ErrorIs(t, err, ErrNoCopyCommand)
	assert.Empty(t, surface.invoked)
	assert.Empty(t, board.writes)
}

func TestFindCopyCommand(t *testing.T) {
	for _, tc := range []struct {
		name  string
		label string
		want  bool
	}{
		{"plain copy", "Copy", true},
		{"copy with shortcut hint", "Copy\tCtrl+C", true},
		{"localized german", "Kopieren", true},
		{"localized chinese", "复制", true},
		{"copy link excluded", "Copy Link", false},
		{"copy address excluded", "Copy Email Address", false},
		{"copy style excluded", "Copy Style", false},
		{"paste is not copy", "Paste", false},
		{"copy as prefix of other word", "Copyright Notice", false},
		{"empty", "", false},
	} {
		_, got := findCopyCommand([]accessibility.Command{{ID: "x", Label: tc.label}})
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestAppSpecificBrowserHandler(t *testing.T) {
	provider := &fakeProvider{
		focused: true,
		attrs:   map[string]string{"web-selected-text": "from the web area"},
	}
	s := NewAppSpecific(provider, KeyCopy{})

	text, err := s.Attempt(context.Background(), &Context{App: "Google Chrome"})
	require.NoError(t, err)
	assert.Equal(t, "from the web area", text)
}

func TestAppSpecificTerminalDelegatesToKeyCopy(t *testing.T) {
	board := &fakeBoard{content: "prev"}
	synth := &fakeSynth{board: board, copies: "ls -la"}
	interval, attempts := fastPoll()
	key := KeyCopy{Board: board, Synth: synth, PollInterval: interval, PollAttempts: attempts}
	s := NewAppSpecific(&fakeProvider{}, key)

	text, err := s.Attempt(context.Background(), &Context{
		App:     "iTerm2",
		Gesture: strongGesture(),
		Gate:    profile.Gate{MinDistance: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, "ls -la", text)
	assert.Equal(t, "prev", board.Read())
}

func TestAppSpecificNoHandler(t *testing.T) {
	s := NewAppSpecific(&fakeProvider{}, KeyCopy{})

	_, err := s.Attempt(context.Background(), &Context{App: "calculator"})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestAppSpecificCustomHandlerRegistration(t *testing.T) {
	s := NewAppSpecific(&fakeProvider{}, KeyCopy{})
	s.Register("myapp", func(context.Context, *Context) (string, error) {
		return "custom", nil
	})

	text, err := s.Attempt(context.Background(), &Context{App: "MyApp Pro"})
	require.NoError(t, err)
	assert.Equal(t, "custom", text)
}
