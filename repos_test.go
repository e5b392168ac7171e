package bmc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepo(t *testing.T) {
	repo := testStore(t).Settings

	_, ok, err := repo.Get("columns")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set("columns", "32"))
	require.NoError(t, repo.Set("columns", "30"))
	require.NoError(t, repo.Set("output_table", "brf"))
	assert.Error(t, repo.Set("columns", "many"))
	assert.Error(t, repo.Set("volume", "11"))
	assert.Error(t, repo.Set("columns", "1"))

	v, ok, err := repo.Get("columns")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "30", v)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"columns": "30", "output_table": "brf"}, all)

	s := DefaultSettings()
	require.NoError(t, repo.Overlay(s))
	assert.Equal(t, 30, s.Columns)
	assert.Equal(t, "brf", s.OutputTable)

	require.NoError(t, repo.Remove("columns"))
	all, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"output_table": "brf"}, all)
}

func translate(t *testing.T, source, input string) *Result {
	t.Helper()
	var diag bytes.Buffer
	r, err := NewTranslatorFs(nil, "").Translate(source, []byte(input), testConfig(t).Options(), &diag)
	require.NoError(t, err, diag.String())
	return r
}

func TestLibraryRepo(t *testing.T) {
	lib := testStore(t).Library

	first := translate(t, "minuet.brl", "⠼⠙⠲\n⠹⠹⠹⠹⠣⠅\n")
	second := translate(t, "march.brl", "⠼⠃⠲\n⠹⠹⠣⠅\n")

	a, err := lib.Add("minuet.brl", first)
	require.NoError(t, err)
	b, err := lib.Add("march.brl", second)
	require.NoError(t, err)
	assert.NotEqual(t, a.Serial, b.Serial)

	all, err := lib.Find()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "march.brl", all[0].Name)
	assert.Empty(t, all[0].Output)

	found, err := lib.Find("min*")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.Serial, found[0].Serial)

	got, err := lib.Get(b.Serial[:8])
	require.NoError(t, err)
	assert.Equal(t, "⠼⠃⠲\n  ⠹⠹⠣⠅\n", got.Output)

	md, err := TranscriptionMetadata(got)
	require.NoError(t, err)
	assert.Equal(t, []string{"2/4"}, md.TimeSignatures)
	assert.Equal(t, 1, md.Measures)

	hit, ok, err := lib.Lookup(first.Hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, a.Serial, hit.Serial)

	require.NoError(t, lib.Remove(a.Serial))
	_, err = lib.Get(a.Serial)
	assert.Error(t, err)
	_, ok, err = lib.Lookup(first.Hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = lib.Get("")
	assert.NoError(t, err, "a single transcription is left")
}

func TestGlobToSQLLike(t *testing.T) {
	assert.Equal(t, "%.brl", globToSQLLike("*.brl"))
	assert.Equal(t, "a\\_b_", globToSQLLike("a_b?"))
	assert.Equal(t, "100\\%", globToSQLLike("100%"))
}
