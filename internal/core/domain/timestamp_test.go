package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindc/internal/core/domain"
)

func TestTimestamp_After(t *testing.T) {
	epoch := domain.At(time.Unix(0, 0))
	early := domain.At(time.Unix(100, 0))
	late := domain.At(time.Unix(200, 0))

	tests := []struct {
		name string
		a, b domain.Timestamp
		want bool
	}{
		{"later time", late, early, true},
		{"earlier time", early, late, false},
		{"equal time", early, early, false},
		{"epoch is newer than missing", epoch, domain.Missing(), true},
		{"missing is older than epoch", domain.Missing(), epoch, false},
		{"forced beats any time", domain.Forced(), late, true},
		{"time never beats forced", late, domain.Forced(), false},
		{"forced vs forced", domain.Forced(), domain.Forced(), false},
		{"missing vs missing", domain.Missing(), domain.Missing(), false},
		{"forced beats missing", domain.Forced(), domain.Missing(), true},
		{"unknown compares as missing", domain.Timestamp{}, domain.Missing(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.After(tt.b))
		})
	}
}

func TestMaxTimestamp(t *testing.T) {
	early := domain.At(time.Unix(100, 0))
	late := domain.At(time.Unix(200, 0))

	assert.True(t, domain.MaxTimestamp(early, late).Equal(late))
	assert.True(t, domain.MaxTimestamp(late, early).Equal(late))
	assert.True(t, domain.MaxTimestamp(domain.Timestamp{}, early).Equal(early))
	assert.True(t, domain.MaxTimestamp(early, domain.Timestamp{}).Equal(early))
	assert.True(t, domain.MaxTimestamp(domain.Missing(), early).Equal(early))
	assert.True(t, domain.MaxTimestamp(domain.Forced(), late).Equal(domain.Forced()))
	assert.False(t, domain.MaxTimestamp(domain.Timestamp{}, domain.Timestamp{}).IsKnown())
}

func TestTimestamp_Accessors(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := domain.At(now)

	assert.Equal(t, domain.TimestampAt, ts.Kind())
	assert.True(t, ts.Time().Equal(now))
	assert.True(t, ts.IsKnown())
	assert.False(t, ts.IsMissing())

	assert.True(t, domain.Missing().IsMissing())
	assert.True(t, domain.Forced().Time().IsZero())
	assert.Equal(t, "missing", domain.Missing().String())
	assert.Equal(t, "forced", domain.Forced().String())
	assert.Equal(t, "unknown", domain.Timestamp{}.String())
}
