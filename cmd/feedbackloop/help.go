package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# feedbackloop

Record developers and the feedback given to them.

## Usage

    feedbackloop [flags]              start the interactive menu
    feedbackloop <command> [args]     run a command

## Commands

| Command | Description |
|---|---|
| doctor | Check that the store is reachable and count records |
| export <file> | Write developers and feedback to .xlsx, .yaml or .json |
| import <file> | Register developers listed in a .yaml or .json file |
| help | Show this help |

## Flags

| Flag | Description |
|---|---|
| --config <path> | Use a specific config.yaml |
| --store <driver> | Store driver: mongo (default) or memory |
| --uri <uri> | MongoDB connection string |
| --database <name> | Database name (default feedbackLoopDB) |
| --picker | Pick menu actions with the arrow keys |
| --unique-ids | Reject developers whose id is already registered |
| --version | Show version |
| --help, -h | Show this help |

## Environment

Every config key can be set as FEEDBACKLOOP_<SECTION>_<KEY>, for example
FEEDBACKLOOP_STORE_URI or FEEDBACKLOOP_LOG_LEVEL.
`

// renderHelp renders the help page for a terminal of the given width,
// falling back to the raw markdown.
func renderHelp(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

func printHelp(w io.Writer) error {
	_, err := fmt.Fprint(w, renderHelp(80))
	return err
}
