package client

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"cpuload/pkg/progress"
)

// LinePrinter writes one line per update.
type LinePrinter struct {
	out io.Writer
}

// NewLinePrinter returns a Printer writing to out.
func NewLinePrinter(out io.Writer) *LinePrinter {
	return &LinePrinter{out: out}
}

// Print implements Printer.
func (p *LinePrinter) Print(update progress.Update) error {
	_, err := fmt.Fprintf(p.out, "Progress: %d/%d seconds\n", update.Elapsed, update.Total)
	if err != nil {
		return fmt.Errorf("write progress line: %w", err)
	}

	return nil
}

// Close implements Printer.
func (p *LinePrinter) Close() error {
	return nil
}

// BarPrinter renders updates as a terminal progress bar sized on the first update.
type BarPrinter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarPrinter returns a Printer drawing a progress bar on out.
func NewBarPrinter(out io.Writer) *BarPrinter {
	return &BarPrinter{out: out}
}

// Print implements Printer.
func (p *BarPrinter) Print(update progress.Update) error {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(
			int(update.Total),
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("burning"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
		)
	}

	err := p.bar.Set(int(update.Elapsed))
	if err != nil {
		return fmt.Errorf("advance progress bar: %w", err)
	}

	return nil
}

// Close implements Printer.
func (p *BarPrinter) Close() error {
	if p.bar == nil {
		return nil
	}

	err := p.bar.Finish()
	if err != nil {
		return fmt.Errorf("finish progress bar: %w", err)
	}

	_, err = fmt.Fprintln(p.out)
	if err != nil {
		return fmt.Errorf("write progress bar: %w", err)
	}

	return nil
}
