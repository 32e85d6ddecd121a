package protocol

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventID_WireForm(t *testing.T) {
	id := NewEventID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id.String())
}

func TestParseEventID(t *testing.T) {
	// dashed and dash-stripped forms both parse to the same id
	dashed, err := ParseEventID("424a038a-04f4-4b9c-b898-b86f45578ea9")
	require.NoError(t, err)
	stripped, err := ParseEventID("424a038a04f44b9cb898b86f45578ea9")
	require.NoError(t, err)

	assert.Equal(t, dashed, stripped)
	assert.Equal(t, "424a038a04f44b9cb898b86f45578ea9", dashed.String())
}

func TestParseEventID_Invalid(t *testing.T) {
	for _, s := range []string{"", "zz", "424a038a04f44b9cb898b86f45578e"} {
		_, err := ParseEventID(s)
		assert.Error(t, err, "input %q", s)
	}
}
