// Package notifier provides desktop notifications for run outcomes
package notifier

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/ghostmind-dev/run/pkg/logger"
)

// RunNotifier surfaces run completion to the desktop
type RunNotifier struct {
	enabled      bool
	successSound string
	failureSound string
	logger       logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled      bool
	SuccessSound string
	FailureSound string
}

// New creates a new run notifier
func New(config Config, log logger.Logger) *RunNotifier {
	return &RunNotifier{
		enabled:      config.Enabled,
		successSound: config.SuccessSound,
		failureSound: config.FailureSound,
		logger:       log,
	}
}

// NotifyRunStart notifies that a module run has started
func (n *RunNotifier) NotifyRunStart(module string) {
	if !n.enabled {
		return
	}

	n.sendNotification("run", fmt.Sprintf("Running %s...", module), "")
}

// NotifyRunSuccess notifies that a run completed successfully
func (n *RunNotifier) NotifyRunSuccess(module string, duration time.Duration) {
	if !n.enabled {
		return
	}

	message := fmt.Sprintf("%s completed in %s", module, formatDuration(duration))
	n.sendNotification("✅ Run Succeeded", message, n.successSound)
}

// NotifyRunFailure notifies that a run failed
func (n *RunNotifier) NotifyRunFailure(module string, err error) {
	if !n.enabled {
		return
	}

	n.sendNotification("❌ Run Failed", fmt.Sprintf("%s: %v", module, err), n.failureSound)
}

// Private methods

func (n *RunNotifier) sendNotification(title, message, soundName string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		if n.logger != nil {
			n.logger.Debug("Failed to send notification", logger.WithField("error", err))
		}
		return
	}

	if soundName != "" {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			if n.logger != nil {
				n.logger.Debug("Failed to play sound", logger.WithField("error", err))
			}
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
