package dayzip

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Tokens recognized in archive name templates.
const (
	DateToken  = "{date}"
	CountToken = "{count}"
)

const (
	DefaultTemplate   = "archive_" + DateToken + "_[" + CountToken + "].zip"
	DefaultDateFormat = "%Y-%m-%d"
)

// TemplateFromPrefix returns the default template with its literal
// "archive_" prefix replaced.
func TemplateFromPrefix(prefix string) string {
	return prefix + DateToken + "_[" + CountToken + "].zip"
}

// Namer renders output archive names. Rendering is a pure function of the
// template, the date format, the bucket date and the member count.
type Namer struct {
	template string
	format   *strftime.Strftime
}

// NewNamer validates template and the strftime dateFormat.
func NewNamer(template, dateFormat string) (*Namer, error) {
	if template == "" {
		return nil, fmt.Errorf("%w: archive name template is empty", ErrConfiguration)
	}
	if !strings.Contains(template, DateToken) {
		return nil, fmt.Errorf("%w: archive name template %q has no %s token", ErrConfiguration, template, DateToken)
	}
	if strings.ContainsAny(template, `/\`) {
		return nil, fmt.Errorf("%w: archive name template %q contains a path separator", ErrConfiguration, template)
	}
	format, err := strftime.New(dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: date format %q: %w", ErrConfiguration, dateFormat, err)
	}
	sample := format.FormatString(time.Date(2021, time.December, 31, 0, 0, 0, 0, time.Local))
	if sample == "" || strings.ContainsAny(sample, `/\`) {
		return nil, fmt.Errorf("%w: date format %q renders %q, which is not usable in a file name", ErrConfiguration, dateFormat, sample)
	}
	return &Namer{template: template, format: format}, nil
}

// Render substitutes the formatted date and the member count into the template.
func (n *Namer) Render(date time.Time, count int) string {
	return strings.NewReplacer(
		DateToken, n.format.FormatString(date),
		CountToken, strconv.Itoa(count),
	).Replace(n.template)
}
