// Package report prints the user-facing notices of a tagging run.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoPrefix    = color.New(color.FgCyan).Sprint("[INFO]")
	warnPrefix    = color.New(color.FgYellow).Sprint("[WARN]")
	errorPrefix   = color.New(color.FgRed).Sprint("[ERROR]")
	taggedPrefix  = color.New(color.FgGreen).Sprint("[TAGGED]")
	dryRunPrefix  = color.New(color.FgMagenta).Sprint("[DRY-RUN]")
	skipPrefix    = color.New(color.FgBlue).Sprint("[SKIP]")
	backupPrefix  = color.New(color.FgYellow).Sprint("[BACKUP]")
	successPrefix = color.New(color.FgGreen, color.Bold).Sprint("[SUCCESS]")
)

// Reporter writes prefixed notices to a single output stream. One decision,
// one line.
type Reporter struct {
	out io.Writer
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) notice(prefix, format string, args []interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Infof prints an informational notice.
func (r *Reporter) Infof(format string, args ...interface{}) {
	r.notice(infoPrefix, format, args)
}

// Warnf prints a warning notice.
func (r *Reporter) Warnf(format string, args ...interface{}) {
	r.notice(warnPrefix, format, args)
}

// Errorf prints an error notice.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.notice(errorPrefix, format, args)
}

// Taggedf prints a notice for a line that was rewritten.
func (r *Reporter) Taggedf(format string, args ...interface{}) {
	r.notice(taggedPrefix, format, args)
}

// DryRunf prints a preview notice for a line that would be rewritten.
func (r *Reporter) DryRunf(format string, args ...interface{}) {
	r.notice(dryRunPrefix, format, args)
}

// Skipf prints a notice for a changed line left alone.
func (r *Reporter) Skipf(format string, args ...interface{}) {
	r.notice(skipPrefix, format, args)
}

// Backupf prints a notice for a backed-up hook.
func (r *Reporter) Backupf(format string, args ...interface{}) {
	r.notice(backupPrefix, format, args)
}

// Successf prints a final success notice.
func (r *Reporter) Successf(format string, args ...interface{}) {
	r.notice(successPrefix, format, args)
}

// Blank prints an empty line, separating per-line notices from the summary.
func (r *Reporter) Blank() {
	fmt.Fprintln(r.out)
}
