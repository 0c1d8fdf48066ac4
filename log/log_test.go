package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(InfoLevel)
	defer SetLevel(InfoLevel)

	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	WithFields(Fields{"form": "work-request"}).Info("notify.sent")
	assert.Contains(t, buf.String(), "notify.sent")
	assert.Contains(t, buf.String(), "form=work-request")

	buf.Reset()
	SetLevel(DebugLevel)
	Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
