package notify

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"wfm-sync/pkg/logger"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	Error NotificationType = iota
	Info
)

func (t NotificationType) String() string {
	if t == Error {
		return "ERROR"
	}
	return "INFO"
}

const defaultTitle = "wfm-sync"

// NotifyService delivers pass summaries and failures to the user
type NotifyService struct {
	log           *logger.Logger
	notifyCommand string
	desktop       bool
	title         string
	out           io.Writer
}

type Option func(*NotifyService)

// WithCommand runs cmd with the type and message as its two arguments.
func WithCommand(cmd string) Option {
	return func(n *NotifyService) { n.notifyCommand = cmd }
}

// WithDesktop enables dunstify/notify-send/zenity.
func WithDesktop(enabled bool) Option {
	return func(n *NotifyService) { n.desktop = enabled }
}

// WithOutput redirects the terminal fallback.
func WithOutput(w io.Writer) Option {
	return func(n *NotifyService) { n.out = w }
}

// NewNotifyService creates a new notification service
func NewNotifyService(log *logger.Logger, opts ...Option) *NotifyService {
	n := &NotifyService{
		log:   log,
		title: defaultTitle,
		out:   os.Stderr,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show displays a notification of the specified type
func (n *NotifyService) Show(message string, nType NotificationType) error {
	// First try configured notification command if available
	if n.notifyCommand != "" {
		err := n.executeNotifyCommand(message, nType)
		if err == nil {
			return nil
		}
		n.log.Warn("Custom notification command failed",
			"command", n.notifyCommand,
			"error", err.Error())
	}

	if n.desktop {
		if err := n.trySystemNotification(n.title, message, nType); err == nil {
			return nil
		}
		n.log.Debug("No desktop notification tool succeeded")
	}

	return n.printToTerminal(n.title, message, nType)
}

func (n *NotifyService) executeNotifyCommand(message string, nType NotificationType) error {
	n.log.Debug("Executing notify command",
		"command", n.notifyCommand,
		"type", nType.String())

	// message and type are passed as positional parameters, never spliced
	// into the script
	cmd := exec.Command("sh", "-c", n.notifyCommand+` "$1" "$2"`, "sh", nType.String(), message)
	return cmd.Run()
}

func (n *NotifyService) printToTerminal(title string, message string, nType NotificationType) error {
	if !isTerminal(n.out) {
		_, err := fmt.Fprintln(n.out, message)
		return err
	}

	colorCode := "\x1b[32m" // Green
	if nType == Error {
		colorCode = "\x1b[31m" // Red
		title += " - Error"
	}
	_, err := fmt.Fprintf(n.out, "%s%s:\x1b[0m %s\n", colorCode, title, message)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
