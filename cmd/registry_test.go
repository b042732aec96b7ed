package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice.GO/core/scope"
)

func TestRegister_Apply(t *testing.T) {
	out := &bytes.Buffer{}
	Register(&cobra.Command{
		Use: "test:outlet",
		Run: func(c *cobra.Command, args []string) {
			out.WriteString(scope.From(scoped("", "tester")).OutletID)
		},
	})
	Apply()

	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"test:outlet"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "central", out.String())
	assert.True(t, rootCmd.ContainsGroup("test"))

	c, _, err := rootCmd.Find([]string{"test:outlet"})
	require.NoError(t, err)
	assert.Equal(t, "test", c.GroupID)

	assert.Panics(t, func() { Register(&cobra.Command{Use: "late"}) })
}

func TestScoped(t *testing.T) {
	s := scope.From(scoped("outlet-b", "cli"))
	assert.Equal(t, scope.Scope{OutletID: "outlet-b", Actor: "cli"}, s)
}
