// Package iocli ввод и вывод команд консольного клиента.
package iocli

import "io"

// Printer вывод результатов команды
type Printer interface {
	io.Writer
	Println(a ...any)
	Printf(format string, a ...any)
}

// Prompter интерактивные вопросы пользователю
type Prompter interface {
	// ReadInput читает строку без крайних пробелов
	ReadInput(prompt string) (string, error)
	// ReadPassword читает строку без эха, если ввод из терминала
	ReadPassword(prompt string) (string, error)
}

// IO все, что нужно команде для общения с пользователем
type IO interface {
	Printer
	Prompter
}

var _ IO = (*Stdio)(nil)
