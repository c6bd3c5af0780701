package notify

import "github.com/gen2brain/beeep"

// Notifier raises a desktop alert outside the terminal.
type Notifier interface {
	Send(title, body string) error
}

type Noop struct{}

func (Noop) Send(string, string) error { return nil }

// Beeep uses the platform notification service and plays the system sound.
type Beeep struct{}

func (Beeep) Send(title, body string) error {
	return beeep.Alert(title, body, "")
}

// Recorder keeps every alert in memory.
type Recorder struct {
	Sent []Alert
	Err  error
}

type Alert struct {
	Title string
	Body  string
}

func (r *Recorder) Send(title, body string) error {
	r.Sent = append(r.Sent, Alert{Title: title, Body: body})
	return r.Err
}
