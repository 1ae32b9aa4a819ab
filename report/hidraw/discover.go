package hidraw

import (
	"bufio"
	"bytes"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const (
	DefaultSysRoot = "/sys"
	DefaultDevRoot = "/dev"
)

// ErrNoDevice is returned when no hidraw node exists.
var ErrNoDevice = errors.New("no hidraw devices found")

// productHints mark a HID_NAME as a QMK board.
var productHints = []string{"planck", "qmk"}

// rawUsagePage is the report descriptor prefix of QMK's raw HID interface
// (Usage Page 0xFF60).
var rawUsagePage = []byte{0x06, 0x60, 0xFF}

// Discover picks the hidraw node most likely to be a QMK raw HID interface:
// a node whose descriptor declares the raw usage page and whose product
// name looks like QMK wins, then either of the two, then the first node.
func Discover(fs afero.Fs, sysRoot, devRoot string) (string, error) {
	nodes, err := afero.Glob(fs, filepath.Join(sysRoot, "class", "hidraw", "hidraw*"))
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", ErrNoDevice
	}
	sort.Strings(nodes)

	best, bestScore := "", -1
	for _, node := range nodes {
		score := 0
		if isQMKName(hidName(fs, node)) {
			score++
		}
		if desc, err := afero.ReadFile(fs, filepath.Join(node, "device", "report_descriptor")); err == nil && bytes.HasPrefix(desc, rawUsagePage) {
			score++
		}
		if score > bestScore {
			best, bestScore = node, score
		}
	}
	return filepath.Join(devRoot, filepath.Base(best)), nil
}

// hidName reads HID_NAME from the uevent file of the node's parent device.
func hidName(fs afero.Fs, node string) string {
	data, err := afero.ReadFile(fs, filepath.Join(node, "device", "uevent"))
	if err != nil {
		return ""
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if name, ok := strings.CutPrefix(sc.Text(), "HID_NAME="); ok {
			return name
		}
	}
	return ""
}

func isQMKName(name string) bool {
	name = strings.ToLower(name)
	for _, hint := range productHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}
