// Command tetrisemu boots the kernel on an emulated PC and shows its screen
// in a terminal or a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"tetrisos/internal/frontend/term"
	"tetrisos/internal/frontend/window"
	"tetrisos/internal/pc"
	"tetrisos/kernel/cpu"
	"tetrisos/kernel/hal/multiboot"
	"tetrisos/kernel/kfmt"
	"tetrisos/kernel/kmain"
)

const statsviewPath = "/debug/statsview"

var errUnknownFrontend = errors.New("unknown frontend")

type options struct {
	frontend  string
	cmdLine   string
	logPath   string
	statsAddr string
	ticks     int
	scale     int
}

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func main() {
	var opts options
	flag.StringVar(&opts.frontend, "frontend", "term", "display to use: term, window or headless")
	flag.StringVar(&opts.cmdLine, "cmdline", "", "kernel command line, e.g. \"tickrate=100 startlevel=0 nextpreview=off\"")
	flag.StringVar(&opts.logPath, "log", "", "file receiving the kernel log (default: discarded for term, stderr otherwise)")
	flag.StringVar(&opts.statsAddr, "statsview", "", "serve runtime statistics on this address, e.g. localhost:12600")
	flag.IntVar(&opts.ticks, "ticks", 0, "headless only: run for this many timer ticks and print the screen")
	flag.IntVar(&opts.scale, "scale", 2, "window only: pixel scale factor")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	switch opts.frontend {
	case "term", "window", "headless":
	default:
		return fmt.Errorf("%w %q", errUnknownFrontend, opts.frontend)
	}

	logSink, closeLog, err := openLog(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	if opts.statsAddr != "" {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(opts.statsAddr))
			statsview.New().Start()
		}()
		log.Printf("stats server available at http://%s%s", opts.statsAddr, statsviewPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := pc.New()
	cpu.Attach(m)
	multiboot.SetBootCmdLine(opts.cmdLine)
	kfmt.SetOutputSink(logSink)

	stepped := opts.frontend == "headless" && opts.ticks > 0
	if !stepped {
		m.Start(ctx)
	}

	kernelDone := make(chan struct{})
	go func() {
		defer close(kernelDone)
		kmain.Kmain(0)
	}()

	switch opts.frontend {
	case "term":
		err = term.New(m, os.Stdin, os.Stdout).Run(ctx)
	case "window":
		err = window.Run(ctx, m, opts.scale)
	case "headless":
		err = runHeadless(ctx, m, opts.ticks)
	}

	m.PowerOff()
	<-kernelDone
	return err
}

// runHeadless either steps the machine a fixed number of ticks and prints
// the final screen or runs it in real time until it powers off.
func runHeadless(ctx context.Context, m *pc.Machine, ticks int) error {
	if ticks == 0 {
		select {
		case <-ctx.Done():
		case <-m.Done():
		}
		return nil
	}

	m.Step(ticks)
	if !m.Off() {
		m.WaitIdle()
	}

	screen, _ := m.VGA.Snapshot()
	_, err := io.WriteString(os.Stdout, screen.String())
	return err
}

// openLog returns the writer that receives the kernel log.
func openLog(opts options) (io.Writer, func(), error) {
	switch {
	case opts.logPath != "":
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening kernel log: %w", err)
		}
		return f, func() { f.Close() }, nil
	case opts.frontend == "term":
		return io.Discard, func() {}, nil
	default:
		return os.Stderr, func() {}, nil
	}
}
