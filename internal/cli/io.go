package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// IO handles command input and output with visible warnings.
type IO struct {
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool
}

// NewIO creates a new IO instance. in may be nil.
func NewIO(in io.Reader, out, errOut io.Writer) *IO {
	if in == nil {
		in = strings.NewReader("")
	}

	return &IO{in: bufio.NewReader(in), out: out, errOut: errOut}
}

// Warn adds a warning.
//
// Parameters:
//   - issue: what went wrong
//   - action: what the user should do about it
//
// Warnings are printed to stderr at both the START and END of output,
// so they stay visible when output is piped through head or tail.
// Any warnings cause exit code 1.
//
// Output to stdout (via Println) still occurs - warnings don't suppress
// normal output.
func (o *IO) Warn(issue string, action string) {
	if action == "" {
		o.warnings = append(o.warnings, issue)

		return
	}

	o.warnings = append(o.warnings, fmt.Sprintf("%s: %s", issue, action))
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Out returns the stdout writer for renderers that stream.
func (o *IO) Out() io.Writer {
	o.flushWarningsStart()

	return o.out
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// ReadLine reads one line from stdin without the trailing newline.
// Returns io.EOF when stdin is exhausted.
func (o *IO) ReadLine() (string, error) {
	line, err := o.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise. Warnings are cleared.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	// Always print at end
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	code := 0
	if len(o.warnings) > 0 {
		code = 1
	}

	o.warnings = nil
	o.started = false

	return code
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.started = true
	}
}
