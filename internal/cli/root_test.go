package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("subcommands registered", func(t *testing.T) {
		names := map[string]bool{}
		for _, c := range GetRootCmd().Commands() {
			names[c.Name()] = true
		}

		for _, want := range []string{"index", "search", "status", "related", "bookmark", "serve"} {
			assert.True(t, names[want], "%s command should exist", want)
		}
	})

	t.Run("help text", func(t *testing.T) {
		cmd := GetRootCmd()
		cmd.SetArgs([]string{"--help"})

		output := &bytes.Buffer{}
		cmd.SetOut(output)

		err := cmd.Execute()
		require.NoError(t, err)
		assert.Contains(t, output.String(), "memsearch")
	})

	t.Run("global flags present", func(t *testing.T) {
		flags := GetRootCmd().PersistentFlags()
		assert.NotNil(t, flags.Lookup("config"))
		assert.NotNil(t, flags.Lookup("log-level"))
	})
}
