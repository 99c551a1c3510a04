package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

type notificationTool struct {
	name         string
	goos         string
	buildCommand func(tool string, title string, message string, nType NotificationType) *exec.Cmd
}

func urgency(nType NotificationType) string {
	if nType == Error {
		return "critical"
	}
	return "normal"
}

// Tools are tried in order. None of them may block: watch mode keeps running
// after a notification.
var notificationTools = []notificationTool{
	{
		name: "dunstify",
		goos: "linux",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command(tool, "-a", defaultTitle, "-u", urgency(nType), "-t", "5000", title, message)
		},
	},
	{
		name: "notify-send",
		goos: "linux",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command(tool, "-a", defaultTitle, "-u", urgency(nType), title, message)
		},
	},
	{
		name: "osascript",
		goos: "darwin",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			script := fmt.Sprintf("display notification %q with title %q", message, title)
			return exec.Command(tool, "-e", script)
		},
	},
}

func (n *NotifyService) trySystemNotification(title string, message string, nType NotificationType) error {
	if nType == Error {
		title += " Error"
	}
	for _, tool := range notificationTools {
		if tool.goos != runtime.GOOS {
			continue
		}
		if _, err := exec.LookPath(tool.name); err != nil {
			continue
		}
		cmd := tool.buildCommand(tool.name, title, message, nType)
		if err := cmd.Run(); err != nil {
			n.log.Debug("Notification tool failed", "tool", tool.name, "error", err.Error())
			continue
		}
		n.log.Debug("Notification sent successfully",
			"tool", tool.name,
			"type", nType.String())
		return nil
	}
	return fmt.Errorf("no notification tools available")
}
