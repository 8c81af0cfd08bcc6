package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davrd/autorel/internal/errors"
)

// Reader is a line-based Prompter reading from an io.Reader and writing to an
// io.Writer. It is the implementation used for piped input and in tests.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Prompter = (*Reader)(nil)

// NewReader creates a Reader using stdin and stdout.
func NewReader() *Reader {
	return NewReaderWithIO(os.Stdin, os.Stdout)
}

// NewReaderWithIO creates a Reader with custom reader and writer for testing.
func NewReaderWithIO(r io.Reader, w io.Writer) *Reader {
	return &Reader{
		in:  bufio.NewReader(r),
		out: w,
	}
}

// readLine reads one trimmed input line, mapping EOF to ErrAborted.
func (p *Reader) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// A final unterminated line still counts as input.
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				return trimmed, nil
			}
			return "", ErrAborted
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Empty input selects the default.
func (p *Reader) Confirm(message string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s ", message, hint)

	input, err := p.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(input) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Input asks for a single line of text. Empty input selects the default.
func (p *Reader) Input(message, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", message, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", message)
	}

	input, err := p.readLine()
	if err != nil {
		return "", err
	}
	if input == "" {
		return def, nil
	}
	return input, nil
}

// Select displays a numbered list and reads a 1-indexed choice.
// Empty input selects the first option; out-of-range input re-prompts.
func (p *Reader) Select(message string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no options to select from")
	}

	fmt.Fprintf(p.out, "%s\n", message)
	for i, opt := range options {
		if opt.Description != "" {
			fmt.Fprintf(p.out, "  [%d] %s - %s\n", i+1, opt.Name, opt.Description)
		} else {
			fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt.Name)
		}
	}

	for {
		fmt.Fprintf(p.out, "Select [1]: ")

		input, err := p.readLine()
		if err != nil {
			return "", err
		}
		if input == "" {
			return options[0].Name, nil
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(p.out, "Enter a number between 1 and %d\n", len(options))
			continue
		}
		return options[n-1].Name, nil
	}
}

// MultiSelect displays a numbered list and reads a comma-separated set of
// 1-indexed choices. Empty input selects nothing, which is valid.
func (p *Reader) MultiSelect(message string, options []Option) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	fmt.Fprintf(p.out, "%s\n", message)
	for i, opt := range options {
		if opt.Description != "" {
			fmt.Fprintf(p.out, "  [%d] %s - %s\n", i+1, opt.Name, opt.Description)
		} else {
			fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt.Name)
		}
	}

	for {
		fmt.Fprintf(p.out, "Select (comma-separated, empty for none): ")

		input, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}

		parts := strings.Split(input, ",")
		selected := make([]string, 0, len(parts))
		valid := true
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 || n > len(options) {
				fmt.Fprintf(p.out, "Enter numbers between 1 and %d\n", len(options))
				valid = false
				break
			}
			selected = append(selected, options[n-1].Name)
		}
		if !valid {
			continue
		}
		return selected, nil
	}
}

// Form prompts for every field, then validates the submission as a whole.
// On validation failure the form is re-presented pre-filled with the
// rejected values.
func (p *Reader) Form(title string, fields []Field, validate func(map[string]string) error) (map[string]string, error) {
	defaults := make(map[string]string, len(fields))
	for _, f := range fields {
		defaults[f.Key] = f.Default
	}

	for {
		if title != "" {
			fmt.Fprintf(p.out, "%s\n", title)
		}

		values := make(map[string]string, len(fields))
		for _, f := range fields {
			v, err := p.Input("  "+f.Message, defaults[f.Key])
			if err != nil {
				return nil, err
			}
			values[f.Key] = v
		}

		if validate != nil {
			if err := validate(values); err != nil {
				fmt.Fprintf(p.out, "Invalid: %v\n", err)
				// Re-present the same form with the rejected values.
				for k, v := range values {
					defaults[k] = v
				}
				continue
			}
		}
		return values, nil
	}
}
