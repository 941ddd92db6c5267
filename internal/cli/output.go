package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/data"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the API or the network failed
	ExitCommandError = 2 // bad arguments, unknown names, rejected input
)

type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. API rejections of the
// request count as command errors.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		return ExitCommandError
	}
	return ExitFailure
}

type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// Table prints rows under the given columns, or the raw value as JSON.
func (f *OutputFormatter) Table(value interface{}, columns []string, rows [][]string) error {
	if f.Format == "json" {
		return f.JSON(value)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.Writer, "No data.")
		return err
	}
	w := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// Done reports a mutation. Text output is a single line.
func (f *OutputFormatter) Done(value interface{}, format string, args ...interface{}) error {
	if f.Format == "json" {
		return f.JSON(value)
	}
	_, err := fmt.Fprintf(f.Writer, format+"\n", args...)
	return err
}

func (f *OutputFormatter) JSON(value interface{}) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{
		Status: "ok",
		Data:   value,
	})
}

func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// formatQuantity renders an optional quantity. Missing quantities print
// as an empty cell.
func formatQuantity(quantity *decimal.Decimal, unit *data.Unit) string {
	if quantity == nil {
		return ""
	}
	return data.FormatQuantity(*quantity, unit)
}

func mark(checked bool) string {
	if checked {
		return "x"
	}
	return ""
}
