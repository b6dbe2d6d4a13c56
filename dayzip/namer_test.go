package dayzip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamer_Render(t *testing.T) {
	date := localTime(2021, time.June, 5, 0, 0)
	tests := []struct {
		name     string
		template string
		format   string
		count    int
		want     string
	}{
		{name: "defaults", template: DefaultTemplate, format: DefaultDateFormat, count: 2, want: "archive_2021-06-05_[2].zip"},
		{name: "custom prefix", template: TemplateFromPrefix("station7_"), format: DefaultDateFormat, count: 10, want: "station7_2021-06-05_[10].zip"},
		{name: "bucket style date", template: "{date}.zip", format: "%m_%d_%Y", count: 1, want: "06_05_2021.zip"},
		{name: "no count token", template: "day-{date}.zip", format: "%Y%m%d", count: 7, want: "day-20210605.zip"},
		{name: "tokens repeated", template: "{date}-{date}-{count}.zip", format: "%d", count: 3, want: "05-05-3.zip"},
		{name: "weekday name", template: "{date}.zip", format: "%a_%Y-%j", count: 1, want: "Sat_2021-156.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNamer(tt.template, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Render(date, tt.count))
		})
	}
}

func TestNewNamer_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		template string
		format   string
	}{
		{name: "empty template", template: "", format: DefaultDateFormat},
		{name: "no date token", template: "archive_[{count}].zip", format: DefaultDateFormat},
		{name: "slash in template", template: "out/{date}.zip", format: DefaultDateFormat},
		{name: "backslash in template", template: `out\{date}.zip`, format: DefaultDateFormat},
		{name: "slash in rendered date", template: DefaultTemplate, format: "%Y/%m/%d"},
		{name: "empty date format", template: DefaultTemplate, format: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNamer(tt.template, tt.format)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
