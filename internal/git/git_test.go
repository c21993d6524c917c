package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNameOnly(t *testing.T) {
	output := []byte("src/App.tsx\nsrc/pages/Home.tsx\n\ncomponents/Button.tsx\n")
	assert.Equal(t,
		[]string{"src/App.tsx", "src/pages/Home.tsx", "components/Button.tsx"},
		parseNameOnly(output))
}

func TestParseNameOnly_Empty(t *testing.T) {
	assert.Empty(t, parseNameOnly(nil))
	assert.Empty(t, parseNameOnly([]byte("\n\n")))
}
