package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/godigen/internal/cli/commands"
)

const graphDocument = `
type: example.com/app.App
entry_points:
  - name: service
    returns: example.com/app.Service
bindings:
  - key: example.com/app.Service
    dependencies: [example.com/app.Repo]
  - key: example.com/app.Repo
subcomponents:
  - type: example.com/app.Session
    kind: subcomponent
    factory_method:
      name: session
    entry_points:
      - name: handler
        returns: example.com/app.Handler
    bindings:
      - key: example.com/app.Handler
        dependencies: [example.com/app.Repo]
`

// run executes the root command in an empty working directory and returns
// what it wrote to standard output and standard error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeGraph(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(graphDocument), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "godigen version: "+commands.Version+"\n")
	assert.Contains(t, out, "Git commit: "+commands.GitCommit+"\n")
	assert.Contains(t, out, "Go version: ")
}

func TestSynthCommand(t *testing.T) {
	path := writeGraph(t)

	t.Run("text", func(t *testing.T) {
		out, _, err := run(t, "synth", path)
		require.NoError(t, err)

		assert.Contains(t, out, "public final class GodigenApp implements App {\n")
		assert.Contains(t, out, "    return serviceProvider.get();\n")
		assert.Contains(t, out, "  private final class SessionImpl implements Session {\n")
		assert.Contains(t, out, "this.handlerProvider = Handler_Factory.create(GodigenApp.this.repoProvider);")
	})

	t.Run("name prefix flag", func(t *testing.T) {
		out, _, err := run(t, "synth", "--name-prefix", "Dagger", path)
		require.NoError(t, err)
		assert.Contains(t, out, "public final class DaggerApp implements App {\n")
	})

	t.Run("json to file", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "app.json")
		out, stderr, err := run(t, "synth", "-f", "json", "-o", output, path)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, stderr, "Wrote example.com/app.GodigenApp to "+output)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		var doc struct {
			Name     string `json:"name"`
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "example.com/app.GodigenApp", doc.Name)
		require.Len(t, doc.Children, 1)
		assert.Equal(t, "example.com/app.GodigenApp.SessionImpl", doc.Children[0].Name)
	})

	t.Run("config file", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "godigen.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("format: dot\n"), 0o600))

		out, _, err := run(t, "synth", "--config", cfg, path)
		require.NoError(t, err)
		assert.Contains(t, out, "digraph implementations {\n")
	})

	t.Run("ahead of time", func(t *testing.T) {
		out, _, err := run(t, "synth", "--ahead-of-time", path)
		require.NoError(t, err)
		assert.Contains(t, out, "  public final class SessionImpl extends GodigenSession {\n")
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := run(t, "synth", "-f", "xml", path)
		assert.ErrorContains(t, err, "invalid format")
	})

	t.Run("missing graph", func(t *testing.T) {
		_, _, err := run(t, "synth", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("requires one argument", func(t *testing.T) {
		_, _, err := run(t, "synth")
		assert.Error(t, err)
	})
}

func TestGraphCommand(t *testing.T) {
	path := writeGraph(t)

	t.Run("text", func(t *testing.T) {
		out, _, err := run(t, "graph", path)
		require.NoError(t, err)

		assert.Contains(t, out, "Binding Graph:\n")
		assert.Contains(t, out, "Level 0:\n")
		assert.Contains(t, out, "  example.com/app.Service\n    Kind: Provision\n    Dependencies: [example.com/app.Repo]\n")
		assert.Contains(t, out, "  Total nodes: 2\n")
		assert.Contains(t, out, "  Total edges: 1\n")
	})

	t.Run("subcomponent", func(t *testing.T) {
		out, _, err := run(t, "graph", "--component", "example.com/app.Session", path)
		require.NoError(t, err)

		assert.Contains(t, out, "  example.com/app.Repo\n    Kind: inherited\n")
		assert.NotContains(t, out, "example.com/app.Service")
	})

	t.Run("dot", func(t *testing.T) {
		out, _, err := run(t, "graph", "--dot", path)
		require.NoError(t, err)
		assert.Contains(t, out, "digraph bindings {\n")
		assert.Contains(t, out, "->")
	})

	t.Run("unknown component", func(t *testing.T) {
		_, _, err := run(t, "graph", "-c", "example.com/app.Nope", path)
		assert.ErrorContains(t, err, "component example.com/app.Nope not found")
	})
}
