package console

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const noCTTY = unix.O_NOCTTY

// configure puts the tty in raw mode and sets 8N1 at BaudRate.
func configure(fd int) error {
	if _, err := term.MakeRaw(fd); err != nil {
		return err
	}
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Cflag &^= unix.CBAUD | unix.CSIZE | unix.PARENB | unix.CSTOPB
	t.Cflag |= unix.B115200 | unix.CS8 | unix.CLOCAL | unix.CREAD
	t.Ispeed = unix.B115200
	t.Ospeed = unix.B115200
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}
