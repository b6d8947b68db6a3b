package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError writes err as a JSON envelope or as text.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if format == FormatJSON {
		return writeJSON(w, ErrorOutput{Error: errorDetail(err)})
	}
	return formatErrorText(w, err)
}

func errorDetail(err error) ErrorDetail {
	var fe *forgeerr.ForgeError
	if errors.As(err, &fe) {
		msg := fe.Message
		if fe.Cause != nil && !errors.As(fe.Cause, new(*forgeerr.ForgeError)) {
			msg = fmt.Sprintf("%s: %v", msg, fe.Cause)
		}
		return ErrorDetail{
			Code:       fe.Code,
			Message:    msg,
			Details:    fe.Details,
			Suggestion: fe.Suggestion,
			ExitCode:   fe.ExitCode,
		}
	}
	return ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: forgeerr.ExitGeneral,
	}
}

func formatErrorText(w io.Writer, err error) error {
	d := errorDetail(err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", d.Message)

	if len(d.Details) > 0 {
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", k, d.Details[k])
		}
	}

	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", d.Suggestion)
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]string{"status": "success", "message": message})
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
