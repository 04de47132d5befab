package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "taskboard dev (none)\n", out.String())
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	root := newRootCmd()
	root.SetArgs([]string{"migrate"})

	err := root.Execute()

	assert.ErrorContains(t, err, "STORAGE_DRIVER=postgres")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
