// Package shell implements the interactive menu loop on top of the
// developer registry and the feedback log.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeanpaul/feedbackloop/internal/registry"
	"github.com/jeanpaul/feedbackloop/internal/tui"
)

const (
	promptChoice   = "Enter your choice: "
	promptRetry    = "Invalid input. Enter a number: "
	promptDevID    = "Enter Developer ID: "
	promptName     = "Enter Name: "
	promptProject  = "Enter Project: "
	promptFeedback = "Enter Feedback: "

	msgDeveloperAdded = "Developer added successfully!"
	msgFeedbackAdded  = "Feedback added successfully!"
	msgNotFound       = "Developer not found!"
	msgInvalidChoice  = "Invalid choice!"
	msgExit           = "Exiting Real-Time Feedback Loop..."
)

// Chooser supplies menu selections instead of typed numbers.
type Chooser interface {
	Choose(ctx context.Context) (int, error)
}

type Shell struct {
	devs    *registry.Developers
	fb      *registry.FeedbackLog
	in      *bufio.Reader
	out     io.Writer
	chooser Chooser
	color   bool
}

type Option func(*Shell)

// WithChooser replaces numeric menu entry with c.
func WithChooser(c Chooser) Option {
	return func(s *Shell) { s.chooser = c }
}

// WithColor enables lipgloss styling of shell output.
func WithColor(on bool) Option {
	return func(s *Shell) { s.color = on }
}

func New(devs *registry.Developers, fb *registry.FeedbackLog, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		devs: devs,
		fb:   fb,
		in:   bufio.NewReader(in),
		out:  out,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run shows the menu until Exit is chosen or input ends. Store failures
// are reported and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := s.choose(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		done, err := s.dispatch(ctx, choice)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Shell) choose(ctx context.Context) (int, error) {
	if s.chooser != nil {
		return s.chooser.Choose(ctx)
	}

	s.printMenu()
	s.print(tui.PromptStyle, promptChoice)
	for {
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		// Only the first token counts; the rest of the line is discarded.
		if fields := strings.Fields(line); len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				return n, nil
			}
		}
		s.print(tui.WarningStyle, promptRetry)
	}
}

func (s *Shell) dispatch(ctx context.Context, choice int) (bool, error) {
	log.Debug().Int("choice", choice).Msg("menu selection")

	switch choice {
	case tui.ChoiceAddDeveloper:
		return false, s.addDeveloper(ctx)
	case tui.ChoiceDisplayDevelopers:
		return false, s.devs.Display(s.out)
	case tui.ChoiceAddFeedback:
		return false, s.addFeedback(ctx)
	case tui.ChoiceDisplayFeedback:
		return false, s.fb.Display(s.out)
	case tui.ChoiceExit:
		s.println(tui.BannerStyle, msgExit)
		return true, nil
	default:
		s.println(tui.WarningStyle, msgInvalidChoice)
		return false, nil
	}
}

func (s *Shell) addDeveloper(ctx context.Context) error {
	id, err := s.ask(promptDevID)
	if err != nil {
		return err
	}
	name, err := s.ask(promptName)
	if err != nil {
		return err
	}
	project, err := s.ask(promptProject)
	if err != nil {
		return err
	}

	if _, err := s.devs.Add(ctx, id, name, project); err != nil {
		s.reportErr(err)
		return nil
	}
	s.println(tui.SuccessStyle, msgDeveloperAdded)
	return nil
}

func (s *Shell) addFeedback(ctx context.Context) error {
	id, err := s.ask(promptDevID)
	if err != nil {
		return err
	}
	if _, ok := s.devs.Find(id); !ok {
		s.println(tui.ErrorStyle, msgNotFound)
		return nil
	}

	text, err := s.ask(promptFeedback)
	if err != nil {
		return err
	}
	if _, err := s.fb.Submit(ctx, s.devs, id, text); err != nil {
		s.reportErr(err)
		return nil
	}
	s.println(tui.SuccessStyle, msgFeedbackAdded)
	return nil
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	s.println(tui.BannerStyle, tui.Title)
	for _, a := range tui.MenuActions {
		fmt.Fprintf(s.out, "%s %s\n",
			s.paint(tui.MenuNumberStyle, strconv.Itoa(a.Num)+"."),
			s.paint(tui.MenuItemStyle, a.Title))
	}
}

func (s *Shell) ask(prompt string) (string, error) {
	s.print(tui.PromptStyle, prompt)
	line, err := s.readLine()
	if err != nil {
		return "", err
	}
	return line, nil
}

// readLine returns the next line without its terminator. A final line
// without a newline is still returned; io.EOF only when nothing is left.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) reportErr(err error) {
	log.Error().Err(err).Msg("operation failed")
	s.println(tui.ErrorStyle, "error: "+err.Error())
}

func (s *Shell) paint(style lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return style.Render(text)
}

func (s *Shell) print(style lipgloss.Style, text string) {
	fmt.Fprint(s.out, s.paint(style, text))
}

func (s *Shell) println(style lipgloss.Style, text string) {
	fmt.Fprintln(s.out, s.paint(style, text))
}
