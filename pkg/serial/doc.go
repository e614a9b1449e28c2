/*
Package serial provides the byte-level transport to the remote game device.

A Transport owns exactly one open Port at a time. It configures the channel
for 8 data bits, one stop bit, no parity and the requested baud rate, and
bounds every blocking operation with a budget made of a constant plus a
per-byte multiplier:

	read window  = ReadConstant  + ReadMultiplier  * len(buffer)
	write budget = WriteConstant + WriteMultiplier * len(payload)

ReadUntil accumulates bytes across read windows until the delimiter appears.
A window that yields no bytes at all ends the call with domain.ErrTimeout, so
a silent device never blocks the caller for longer than one window.

Port identifiers of the form "tcp://host:port" dial a TCP socket instead of a
local serial device. This is how device emulators and serial-over-network
bridges are reached; the baud rate is validated but otherwise ignored.

# Usage

	t := serial.New(serial.Config{Port: "/dev/ttyACM0", BaudRate: 9600})
	if err := t.Open(ctx); err != nil {
		return err
	}
	defer t.Close()

	if _, err := t.Write([]byte("StartGame\n")); err != nil {
		return err
	}
	line, err := t.ReadUntil('\n')
*/
package serial
