package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCreationLog(t *testing.T) {
	out := "create : app.js\n" +
		"\x1b[32mcreate\x1b[0m : bin/www\n" +
		"force : routes/index.js\n" +
		"   install dependencies:\n" +
		"[dry run] would create README.md\n"

	assert.Equal(t, []string{"app.js", "bin/www", "routes/index.js"}, ParseCreationLog(out))
	assert.Empty(t, ParseCreationLog("nothing here\n"))
}

func TestTestProject(t *testing.T) {
	p := NewTestProject(t, "app")
	p.WriteFile("bin/www", "x")
	p.WriteFile("app.js", "y")

	assert.Equal(t, "x", p.ReadFile("bin/www"))
	assert.Equal(t, []string{"app.js", "bin/www"}, p.Files())
	p.AssertLogMatchesTree("create : bin/www\ncreate : app.js\n")

	p.RemoveFile("app.js")
	assert.Equal(t, []string{"bin/www"}, p.Files())
}
