//go:build windows
// +build windows

package log

func clearLine() {
}
