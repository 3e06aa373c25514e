package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Kinds accepted by New.
const (
	KindNone    = "none"
	KindUSB     = "usb"
	KindNetwork = "network"
)

// Printer sends a finished ESC/POS job to a receipt printer.
type Printer interface {
	// Print writes one complete job.
	Print(ctx context.Context, job []byte) error
	// Ready reports whether the device can currently accept a job.
	Ready(ctx context.Context) bool
	// Kind is one of KindNone, KindUSB or KindNetwork.
	Kind() string
}

// Config selects and addresses the receipt printer of a terminal.
type Config struct {
	Kind         string
	DevicePath   string // e.g. /dev/usb/lp0
	Address      string // e.g. 192.168.1.100:9100
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// New builds the printer described by cfg. An empty kind means no printer.
func New(cfg Config) (Printer, error) {
	switch cfg.Kind {
	case KindUSB:
		if cfg.DevicePath == "" {
			return nil, fmt.Errorf("printer: device path is required for %s printers", KindUSB)
		}
		return &devicePrinter{path: cfg.DevicePath}, nil
	case KindNetwork:
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for %s printers", KindNetwork)
		}
		p := &tcpPrinter{address: cfg.Address, dialTimeout: cfg.DialTimeout, writeTimeout: cfg.WriteTimeout}
		if p.dialTimeout <= 0 {
			p.dialTimeout = 5 * time.Second
		}
		if p.writeTimeout <= 0 {
			p.writeTimeout = 10 * time.Second
		}
		return p, nil
	case KindNone, "":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown printer kind %q (use usb, network or none)", cfg.Kind)
	}
}

// devicePrinter writes jobs to a character device. The device is opened per job.
type devicePrinter struct {
	path string
}

func (p *devicePrinter) Print(ctx context.Context, job []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(job); err != nil {
		return fmt.Errorf("printer: failed to write to device %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) Ready(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *devicePrinter) Kind() string { return KindUSB }

// tcpPrinter sends jobs to a raw print port, one connection per job.
type tcpPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func (p *tcpPrinter) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: p.dialTimeout}
	return dialer.DialContext(ctx, "tcp", p.address)
}

func (p *tcpPrinter) Print(ctx context.Context, job []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *tcpPrinter) Ready(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *tcpPrinter) Kind() string { return KindNetwork }

// Discard accepts and drops every job. Used when a terminal has no printer.
type Discard struct{}

func (Discard) Print(context.Context, []byte) error { return nil }
func (Discard) Ready(context.Context) bool          { return false }
func (Discard) Kind() string                        { return KindNone }
