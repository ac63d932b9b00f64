// Package smtp содержит SMTP транспорт для почтовых уведомлений.
package smtp

import "io"

// Client минимальный набор SMTP-команд, который нужен отправителю писем.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
