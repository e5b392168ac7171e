package bmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overridesTester struct {
	line string
	want map[string]string
	err  bool
}

func (o *overridesTester) runTest(t *testing.T) {
	got, err := ParseOverrides(o.line)
	if o.err {
		assert.Error(t, err)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, o.want, got)
}

func TestParseOverrides(t *testing.T) {
	tests := map[string]*overridesTester{
		"empty": {
			line: "",
			want: map[string]string{},
		},
		"pairs": {
			line: "columns 32, input-table de",
			want: map[string]string{"columns": "32", "input_table": "de"},
		},
		"quoted": {
			line: `tables_dir "/home/u/my tables", output_table brf`,
			want: map[string]string{"tables_dir": "/home/u/my tables", "output_table": "brf"},
		},
		"escape": {
			line: `tables_dir "a\"b"`,
			want: map[string]string{"tables_dir": `a"b`},
		},
		"path": {
			line: "plugins_dir /opt/bmc/plugins",
			want: map[string]string{"plugins_dir": "/opt/bmc/plugins"},
		},
		"missing-comma": {
			line: "columns 32 log_level debug",
			err:  true,
		},
		"unterminated": {
			line: `tables_dir "oops`,
			err:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

func TestApplyOverrides(t *testing.T) {
	s := DefaultSettings()
	m, err := ParseOverrides("first-line-columns 20, columns 24")
	require.NoError(t, err)
	require.NoError(t, s.Apply(m))
	assert.Equal(t, 24, s.Columns)
	assert.Equal(t, 20, s.FirstLineColumns)

	assert.Error(t, s.Apply(map[string]string{"volume": "11"}))
}
