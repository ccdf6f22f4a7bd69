package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *[]string {
	t.Helper()
	original := Logf
	t.Cleanup(func() { Logf = original })

	var lines []string
	SetLogger(func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	return &lines
}

func TestSetLogger(t *testing.T) {
	lines := capture(t)
	Logf("rep %d", 3)
	assert.Equal(t, []string{"rep 3"}, *lines)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted") })
	assert.Len(t, *lines, 1)
}

func TestPrefixed(t *testing.T) {
	log := Prefixed("[session abc] ")
	lines := capture(t) // installed after Prefixed: still used
	log("filter bank reset after %d lost frames", 15)
	assert.Equal(t, []string{"[session abc] filter bank reset after 15 lost frames"}, *lines)
}

func TestLogf_Default(t *testing.T) {
	assert.NotNil(t, Logf)
}
