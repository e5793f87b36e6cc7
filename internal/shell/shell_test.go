package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/feedbackloop/internal/registry"
	"github.com/jeanpaul/feedbackloop/internal/store"
	"github.com/jeanpaul/feedbackloop/internal/tui"
	"github.com/jeanpaul/feedbackloop/internal/types"
)

var fixedTime = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type harness struct {
	store *store.Memory
	devs  *registry.Developers
	fb    *registry.FeedbackLog
	out   bytes.Buffer
}

func newHarness(t *testing.T, s store.Store) *harness {
	t.Helper()
	ctx := context.Background()
	devs, err := registry.NewDevelopers(ctx, s)
	require.NoError(t, err)
	fb, err := registry.NewFeedbackLog(ctx, s, registry.WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	h := &harness{devs: devs, fb: fb}
	if m, ok := s.(*store.Memory); ok {
		h.store = m
	}
	return h
}

func (h *harness) run(t *testing.T, input string, opts ...Option) {
	t.Helper()
	sh := New(h.devs, h.fb, strings.NewReader(input), &h.out, opts...)
	require.NoError(t, sh.Run(context.Background()))
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func TestShell_Scenario(t *testing.T) {
	h := newHarness(t, store.NewMemory())

	h.run(t, lines(
		"1", "D1", "Alice", "Orion",
		"1", "D2", "Bob", "Orion",
		"2",
		"3", "D1", "Great work",
		"4",
		"3", "D9",
		"5",
	))

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Developer added successfully!"))
	assert.Equal(t, 1, strings.Count(out, "Feedback added successfully!"))
	assert.Contains(t, out, "Developer not found!")
	assert.Contains(t, out, "Exiting Real-Time Feedback Loop...")

	d1 := strings.Index(out, "Developer ID: D1 | Name: Alice | Project: Orion")
	d2 := strings.Index(out, "Developer ID: D2 | Name: Bob | Project: Orion")
	require.NotEqual(t, -1, d1)
	require.NotEqual(t, -1, d2)
	assert.Less(t, d1, d2)

	stamp := fixedTime.Local().Format(time.UnixDate)
	assert.Equal(t, 1, strings.Count(out, "["+stamp+"] Developer ID: D1 | Feedback: Great work"))

	require.Equal(t, 1, h.fb.Len())
	assert.Equal(t, 2, h.devs.Len())
	stored, err := h.store.Feedback(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].ID)
}

func TestShell_UnknownDeveloperSkipsFeedbackPrompt(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, lines("3", "D9", "5"))

	out := h.out.String()
	assert.Contains(t, out, "Developer not found!")
	assert.NotContains(t, out, "Enter Feedback:")
	assert.Equal(t, 0, h.fb.Len())
}

func TestShell_MenuRendering(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, lines("5"))

	out := h.out.String()
	assert.Contains(t, out, "=== Real-Time Feedback Loop for Developers ===")
	for _, want := range []string{
		"1. Add Developer",
		"2. Display Developers",
		"3. Add Feedback",
		"4. Display All Feedback",
		"5. Exit",
		"Enter your choice: ",
	} {
		assert.Contains(t, out, want)
	}
}

func TestShell_NonIntegerInputReprompts(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, lines("abc", "", "2", "5"))

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Invalid input. Enter a number: "))
	assert.Contains(t, out, "No developers found.")
}

func TestShell_ChoiceUsesFirstToken(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, lines("1 extra", "D1", "Alice", "Orion", "abc 2", " 5  trailing"))

	out := h.out.String()
	assert.Equal(t, 1, strings.Count(out, "Invalid input. Enter a number: "))
	assert.Contains(t, out, "Developer added successfully!")
	assert.Equal(t, 1, h.devs.Len())
	d, ok := h.devs.Find("D1")
	require.True(t, ok)
	assert.Equal(t, "Alice", d.Name)
	assert.Contains(t, out, "Exiting Real-Time Feedback Loop...")
}

func TestShell_OutOfRangeChoice(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, lines("9", "0", "4", "5"))

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Invalid choice!"))
	assert.Contains(t, out, "No feedback records found.")
}

func TestShell_EOFEndsCleanly(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, "1\nD1\nAlice")

	// The final unterminated line is still read, then the project prompt
	// hits end of input and nothing is written.
	assert.Equal(t, 0, h.devs.Len())
	assert.NotContains(t, h.out.String(), "Exiting")
}

func TestShell_ChoiceWithoutTrailingNewline(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	h.run(t, "1\nD1\nAlice\nOrion\n5")

	assert.Equal(t, 1, h.devs.Len())
	assert.Contains(t, h.out.String(), "Exiting Real-Time Feedback Loop...")
}

type failingStore struct {
	*store.Memory
}

func (failingStore) InsertDeveloper(context.Context, types.Developer) error {
	return errors.New("no reachable servers")
}

func TestShell_StoreErrorIsReportedAndLoopContinues(t *testing.T) {
	h := newHarness(t, failingStore{store.NewMemory()})
	h.run(t, lines("1", "D1", "Alice", "Orion", "2", "5"))

	out := h.out.String()
	assert.Contains(t, out, "error: insert developers: no reachable servers")
	assert.NotContains(t, out, "Developer added successfully!")
	assert.Contains(t, out, "No developers found.")
	assert.Contains(t, out, "Exiting")
}

type scriptedChooser struct {
	choices []int
}

func (c *scriptedChooser) Choose(context.Context) (int, error) {
	if len(c.choices) == 0 {
		return tui.ChoiceExit, nil
	}
	next := c.choices[0]
	c.choices = c.choices[1:]
	return next, nil
}

func TestShell_WithChooser(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	chooser := &scriptedChooser{choices: []int{tui.ChoiceAddDeveloper, tui.ChoiceDisplayDevelopers}}
	h.run(t, lines("D1", "Alice", "Orion"), WithChooser(chooser))

	out := h.out.String()
	assert.NotContains(t, out, "Enter your choice:")
	assert.Contains(t, out, "Developer ID: D1 | Name: Alice | Project: Orion")
	assert.Contains(t, out, "Exiting")
}

func TestShell_CancelledContext(t *testing.T) {
	h := newHarness(t, store.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sh := New(h.devs, h.fb, strings.NewReader("5\n"), &h.out)
	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
}
