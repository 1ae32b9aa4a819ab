//go:build !linux

package console

import "golang.org/x/term"

const noCTTY = 0

// configure puts the tty in raw mode; the port keeps its current speed.
func configure(fd int) error {
	_, err := term.MakeRaw(fd)
	return err
}
