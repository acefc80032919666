package util

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultInfoTTL is how long a status message stays up when it does not say.
const DefaultInfoTTL = 3 * time.Second

type Model interface {
	Init() tea.Cmd
	Update(tea.Msg) (Model, tea.Cmd)
	View() string
}

func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func ReportError(err error) tea.Cmd {
	slog.Error("Error reported", "error", err)
	return CmdHandler(InfoMsg{
		Type: InfoTypeError,
		Msg:  err.Error(),
	})
}

type InfoType int

const (
	InfoTypeInfo InfoType = iota
	InfoTypeWarn
	InfoTypeError
)

func ReportInfo(info string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeInfo,
		Msg:  info,
	})
}

func ReportWarn(warn string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeWarn,
		Msg:  warn,
	})
}

// ClearStatusAfter sends a ClearStatusMsg for the message with the given
// sequence number once ttl has passed.
func ClearStatusAfter(seq int, ttl time.Duration) tea.Cmd {
	if ttl <= 0 {
		ttl = DefaultInfoTTL
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

type (
	InfoMsg struct {
		Type InfoType
		Msg  string
		TTL  time.Duration
	}
	ClearStatusMsg struct {
		Seq int
	}
)
