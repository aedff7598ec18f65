/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package notify sends email notifications for print job events.
// Notification is optional; with no SMTP host configured every send is
// a no-op.
package notify

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
	"k8s.io/klog/v2"

	"github.com/hunter-stradley/vibe-print/pkg/config"
	"github.com/hunter-stradley/vibe-print/pkg/printer"
)

// Config holds SMTP settings.
type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	From      string
	Recipient string
	UseSSL    bool
}

// FromAppConfig builds the mail config from the application config.
func FromAppConfig() Config {
	return Config{
		SMTPHost:  config.GetSMTPHost(),
		SMTPPort:  config.GetSMTPPort(),
		Username:  config.GetSMTPUser(),
		Password:  config.GetSMTPPassword(),
		From:      config.GetSMTPUser(),
		Recipient: config.GetNotifyRecipient(),
	}
}

// Notifier sends job event mail.
type Notifier struct {
	cfg Config
}

func NewNotifier(cfg Config) *Notifier {
	return &Notifier{cfg: cfg}
}

// Enabled reports whether notifications are configured.
func (n *Notifier) Enabled() bool {
	return n.cfg.SMTPHost != "" && n.cfg.Recipient != ""
}

// NotifyJobEvent sends a mail when a print job reaches a terminal or
// noteworthy state. Disabled or irrelevant states are silently skipped.
func (n *Notifier) NotifyJobEvent(job *printer.Job) error {
	if !n.Enabled() || job == nil {
		return nil
	}

	var subject, body string
	switch job.Status {
	case printer.JobCompleted:
		subject = fmt.Sprintf("Print complete: %s", job.FileName)
		body = fmt.Sprintf("Your print %q finished successfully at %s.",
			job.FileName, timestamp(job.CompletedAt))
	case printer.JobFailed:
		subject = fmt.Sprintf("Print FAILED: %s", job.FileName)
		body = fmt.Sprintf("Your print %q failed at %s.\n\n%s",
			job.FileName, timestamp(job.CompletedAt), job.ErrorMessage)
	case printer.JobPaused:
		subject = fmt.Sprintf("Print paused: %s", job.FileName)
		body = fmt.Sprintf("Your print %q was paused at %.0f%% progress. Check the printer.",
			job.FileName, job.ProgressPercent)
	default:
		return nil
	}

	return n.send(subject, body)
}

// NotifyDefects sends a mail when the monitor pauses a print.
func (n *Notifier) NotifyDefects(fileName string, score float64, defects []string) error {
	if !n.Enabled() {
		return nil
	}
	subject := fmt.Sprintf("Print paused by defect monitor: %s", fileName)
	body := fmt.Sprintf("The defect monitor paused %q.\n\nQuality score: %.0f\nDefects: %v",
		fileName, score, defects)
	return n.send(subject, body)
}

func (n *Notifier) send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.Recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.Username, n.cfg.Password)
	d.SSL = n.cfg.UseSSL

	if err := d.DialAndSend(m); err != nil {
		klog.ErrorS(err, "failed to send notification mail", "subject", subject)
		return fmt.Errorf("failed to send email: %w", err)
	}
	klog.V(2).Infof("sent notification mail: %s", subject)
	return nil
}

func timestamp(t *time.Time) string {
	if t == nil {
		return time.Now().Format(time.RFC3339)
	}
	return t.Format(time.RFC3339)
}
