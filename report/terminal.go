package report

import (
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

var font = &proggy.TinySZ8pt7b

// Terminal shows the reports on a display, scrolling like a serial terminal.
type Terminal struct {
	display tinyterm.Displayer
	term    *tinyterm.Terminal
	buf     []byte
}

func NewTerminal(display tinyterm.Displayer) *Terminal {
	term := tinyterm.NewTerminal(display)
	term.Configure(&tinyterm.Config{
		Font:       font,
		FontHeight: 10,
		FontOffset: 6,
	})
	return &Terminal{
		display: display,
		term:    term,
	}
}

// Write prints p and pushes the result to the display.
func (t *Terminal) Write(p []byte) (int, error) {
	// the terminal moves to a new line on \n alone
	t.buf = append(append(t.buf[:0], line(p)...), '\n')
	_, err := t.term.Write(t.buf)
	if err != nil {
		return 0, err
	}
	return len(p), t.display.Display()
}
