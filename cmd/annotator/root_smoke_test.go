package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunTUIMissingConfigReturnsError(t *testing.T) {
	t.Setenv("ANNOTATOR_HOME", t.TempDir())

	err := runTUI(false)
	assert.Error(t, err)
}

func TestMainHelpFlagDoesNotExit(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"annotator", "--help"}
	defer func() { os.Args = oldArgs }()

	// main() should return normally for help (no os.Exit).
	main()
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"login", "search", "import", "kb"} {
		c, _, err := root.Find([]string{name})
		assert.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

func TestRootUnknownCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"nope"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	assert.Error(t, root.Execute())
}
