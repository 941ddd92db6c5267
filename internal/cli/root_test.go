package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "groceries", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"product", "list"}, {"product", "create"}, {"product", "import"}, {"product", "update"},
		{"stock", "get"}, {"stock", "update"},
		{"list", "get"}, {"list", "create"}, {"list", "item"}, {"list", "add"},
		{"list", "remove"}, {"list", "finalize"}, {"list", "watch"},
		{"recipe", "list"}, {"recipe", "create"}, {"recipe", "ingredient"}, {"recipe", "import"},
		{"dish", "list"}, {"dish", "create"},
	}
	for _, path := range commands {
		t.Run(path[0]+" "+path[1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv(API_URL_ENV, "http://groceries.local:9000")
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	urlFlag := cmd.PersistentFlags().Lookup("api-url")
	require.NotNil(t, urlFlag)
	assert.Equal(t, "http://groceries.local:9000", urlFlag.DefValue)
}

func TestItemCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	itemCmd, _, err := cmd.Find([]string{"list", "item"})
	require.NoError(t, err)
	for _, name := range []string{"quantity", "no-quantity", "checked", "no-checked"} {
		assert.NotNil(t, itemCmd.Flags().Lookup(name), name)
	}
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "product", "list"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
