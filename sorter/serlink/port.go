package serlink

import (
	"io"
	"time"

	"github.com/tarm/serial"
)

const DefaultBaud = 9600

// Link is the byte-stream command channel between the classification host
// and this controller. Implementations must make PollByte non-blocking
// beyond the configured read timeout so the control loop keeps spinning.
type Link interface {
	io.Writer
	PollByte() (b byte, ok bool, err error)
	Close() error
}

type SerialLink struct {
	port *serial.Port
	buf  [1]byte
}

// OpenSerialLink opens the command port. The short read timeout is what
// turns a blocking serial read into the poll the interpreter loop needs.
func OpenSerialLink(device string, baud int) (l *SerialLink, err error) {
	if baud == 0 {
		baud = DefaultBaud
	}

	cfg := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 50 * time.Millisecond,
	}

	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}

	return &SerialLink{port: port}, nil
}

// PollByte reads at most one byte. An elapsed read timeout is reported as
// (0, false, nil) so the caller treats it as "nothing pending".
func (l *SerialLink) PollByte() (byte, bool, error) {
	n, err := l.port.Read(l.buf[:1])
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return l.buf[0], true, nil
}

func (l *SerialLink) Write(p []byte) (int, error) {
	return l.port.Write(p)
}

func (l *SerialLink) Close() error {
	return l.port.Close()
}
