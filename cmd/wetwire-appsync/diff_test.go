package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiffCmd(t *testing.T) {
	cmd := newDiffCmd(&globalOptions{})

	assert.Equal(t, "diff <template1> <template2>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("format"))
	assert.NotNil(t, cmd.Flags().Lookup("ignore-order"))
}

func TestDiffCmd_Text(t *testing.T) {
	out, err := execute(t, "diff", filepath.Join("testdata", "old.json"), filepath.Join("testdata", "new.json"))
	require.NoError(t, err)

	assert.Equal(t, `- Legacy (AWS::AppSync::DataSource)
~ ApiSchema (AWS::AppSync::GraphQLSchema)
    Definition: field Query.echo added

Summary: 0 added, 1 removed, 1 modified
`, out)
}

func TestDiffCmd_JSON(t *testing.T) {
	out, err := execute(t, "diff", "-f", "json", filepath.Join("testdata", "new.json"), filepath.Join("testdata", "old.json"))
	require.NoError(t, err)

	var got diffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Summary.Added)
	assert.Equal(t, 1, got.Summary.Modified)
	require.Len(t, got.Diff.Added, 1)
	assert.Equal(t, "Legacy", got.Diff.Added[0].Resource)
}

func TestDiffCmd_AgainstProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	_, err := execute(t, "build", "-c", testProject, "-o", path)
	require.NoError(t, err)

	out, err := execute(t, "diff", "-c", testProject, path, "-")
	require.NoError(t, err)
	assert.Equal(t, "No differences found.\n", out)
}

func TestDiffCmd_Errors(t *testing.T) {
	_, err := execute(t, "diff", filepath.Join("testdata", "old.json"))
	assert.Error(t, err)

	_, err = execute(t, "diff", filepath.Join("testdata", "old.json"), filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)

	_, err = execute(t, "diff", "-f", "html", filepath.Join("testdata", "old.json"), filepath.Join("testdata", "new.json"))
	assert.EqualError(t, err, "unknown format: html")
}
