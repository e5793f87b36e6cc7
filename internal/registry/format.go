package registry

import (
	"fmt"
	"time"

	"github.com/jeanpaul/feedbackloop/internal/types"
)

// TimestampLayout is used when printing feedback.
const TimestampLayout = time.UnixDate

const (
	noDevelopersMsg = "No developers found."
	noFeedbackMsg   = "No feedback records found."
)

func FormatDeveloper(d types.Developer) string {
	return fmt.Sprintf("Developer ID: %s | Name: %s | Project: %s", d.ID, d.Name, d.Project)
}

func FormatFeedback(f types.Feedback) string {
	return fmt.Sprintf("[%s] Developer ID: %s | Feedback: %s",
		f.Timestamp.Local().Format(TimestampLayout), f.DevID, f.Text)
}
