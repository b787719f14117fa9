package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequenceNumber(t *testing.T) {
	cases := []struct {
		name  string
		prior string
		want  string
	}{
		{name: "increments", prior: "GRN-007", want: "GRN-008"},
		{name: "carries", prior: "GRN-099", want: "GRN-100"},
		{name: "grows past padding", prior: "GRN-999", want: "GRN-1000"},
		{name: "unpadded prior", prior: "GRN-5", want: "GRN-006"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextSequenceNumber("GRN", &Document{Number: tc.prior})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextSequenceNumberEmptySeries(t *testing.T) {
	got, err := NextSequenceNumber("GRN", nil)
	require.NoError(t, err)
	assert.Equal(t, "GRN-001", got)

	got, err = NextSequenceNumber(KindPurchaseOrder.Series(), nil)
	require.NoError(t, err)
	assert.Equal(t, "PO-001", got)
}

func TestNextSequenceNumberCorruptPrior(t *testing.T) {
	for _, prior := range []string{"GRN-ABC", "PO-004", "GRN-", "GRN--4", "GRN-+4"} {
		_, err := NextSequenceNumber("GRN", &Document{Number: prior})
		assert.ErrorIs(t, err, ErrSequenceCorrupt, prior)
	}
}

func TestNextSequenceNumberStaysWithinSuffixDigits(t *testing.T) {
	got, err := NextSequenceNumber("GRN", &Document{Number: "GRN-099999999999999998"})
	require.NoError(t, err)
	assert.Equal(t, "GRN-099999999999999999", got)
	assert.Regexp(t, SeriesPattern("GRN"), got)

	_, err = NextSequenceNumber("GRN", &Document{Number: "GRN-999999999999999999"})
	assert.ErrorIs(t, err, ErrSequenceExhausted)

	_, err = NextSequenceNumber("GRN", &Document{Number: "GRN-0000000000000000001"})
	assert.ErrorIs(t, err, ErrSequenceCorrupt)
}

func TestSeriesPattern(t *testing.T) {
	assert.Regexp(t, SeriesPattern("IN"), "IN-001")
	assert.NotRegexp(t, SeriesPattern("IN"), "IN-+1")
	assert.NotRegexp(t, SeriesPattern("IN"), "IN-1000000000000000000")
	assert.NotRegexp(t, SeriesPattern("IN"), "XIN-001")
}

func TestNextSequenceNumberSamePriorSameProposal(t *testing.T) {
	prior := &Document{Number: "GRN-041"}
	results := make(chan string, 2)
	for range 2 {
		go func() {
			n, _ := NextSequenceNumber("GRN", prior)
			results <- n
		}()
	}
	a, b := <-results, <-results
	assert.Equal(t, "GRN-042", a)
	assert.Equal(t, a, b)
}
