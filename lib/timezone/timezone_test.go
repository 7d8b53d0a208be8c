package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStamp(t *testing.T) {
	cases := []struct {
		in     time.Time
		expect string
	}{
		{
			// UTC-6 (winter)
			in:     time.Date(2025, time.January, 15, 18, 30, 0, 0, time.UTC),
			expect: "2025-01-15 12:30:00",
		},
		{
			// Mexico abolished DST in 2022 so summer stays UTC-6
			in:     time.Date(2025, time.July, 1, 5, 59, 59, 0, time.UTC),
			expect: "2025-06-30 23:59:59",
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, Stamp(test.in))
	}
}
