package tui

import "strings"

// textinput drops control characters and flattens newlines and tabs, so
// values are shown with the Unicode control pictures (␊ for "\n") and
// mapped back before they reach the form.
const (
	controlPictureBase = '␀'
	controlPictureDel  = '␡'
)

func encodeInputText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return controlPictureBase + r
		case r == 0x7f:
			return controlPictureDel
		}
		return r
	}, s)
}

func decodeInputText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= controlPictureBase && r < controlPictureBase+0x20:
			return r - controlPictureBase
		case r == controlPictureDel:
			return 0x7f
		}
		return r
	}, s)
}
