package serlink

import (
	"fmt"
	"io"
	"log"
)

// ACK is written to the link exactly once per completed sort sequence so the
// host no longer has to guess completion from free-text log lines.
const ACK byte = 0x06

// Console emits the line-oriented status text the host sees on the link,
// mirrored to the local log. The link side is best-effort: a dead or absent
// link must never stop the control loop.
type Console struct {
	link io.Writer
	lg   *log.Logger
}

func NewConsole(link io.Writer, lg *log.Logger) *Console {
	if lg == nil {
		lg = log.Default()
	}
	return &Console{link: link, lg: lg}
}

func (c *Console) Printf(format string, a ...interface{}) {
	line := fmt.Sprintf(format, a...)
	c.lg.Print(line)
	if c.link != nil {
		fmt.Fprintf(c.link, "%s\r\n", line)
	}
}

// Diagf marks operator-triggered diagnostic output so it cannot be mistaken
// for sorting activity in a captured log.
func (c *Console) Diagf(format string, a ...interface{}) {
	c.Printf("[diag] "+format, a...)
}

func (c *Console) Ack() {
	if c.link != nil {
		c.link.Write([]byte{ACK})
	}
}
