package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand(CommandDependencies{})
	assert.Equal(t, "insightctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"records", "stats", "facets", "charts", "dataset", "export", "import", "events", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand(CommandDependencies{})
	tests := []struct {
		flag string
		def  string
	}{
		{"config", ""},
		{"server", ""},
		{"output", OutputTable},
		{"log-level", "warn"},
		{"timeout", "30s"},
		{"no-color", "false"},
	}
	for _, tc := range tests {
		f := cmd.PersistentFlags().Lookup(tc.flag)
		require.NotNil(t, f, tc.flag)
		assert.Equal(t, tc.def, f.DefValue, tc.flag)
	}
}

func TestNewRootCommand_InvalidOutput(t *testing.T) {
	_, _, err := runCLI(t, "http://127.0.0.1:1", "--output", "yaml", "version")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		name string
		flag string
		cfg  config.ServerConfig
		want string
	}{
		{"flag wins", "http://api:9000", config.ServerConfig{Port: 8080}, "http://api:9000"},
		{"flag without scheme", "api:9000", config.ServerConfig{}, "http://api:9000"},
		{"wildcard host", "", config.ServerConfig{Host: "0.0.0.0", Port: 8081}, "http://localhost:8081"},
		{"empty config", "", config.ServerConfig{}, "http://localhost:8080"},
		{"named host", "", config.ServerConfig{Host: "board.internal", Port: 80}, "http://board.internal:80"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, serverAddr(tc.flag, tc.cfg))
		})
	}
}

func TestParseFilters(t *testing.T) {
	got, err := parseFilters([]string{"sector=Energy", "endYear=2020", "sector=Retail", "city="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sector": "Retail", "endYear": "2020", "city": ""}, got)

	none, err := parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseFilters([]string{"sector"})
	assert.ErrorContains(t, err, "must be key=value")

	_, err = parseFilters([]string{"planet=Mars"})
	assert.ErrorContains(t, err, "is not a facet")
}

func TestQueryFlags_Validation(t *testing.T) {
	tests := []struct {
		name  string
		flags queryFlags
		want  string
	}{
		{"bad sort", queryFlags{sort: "insight"}, "is not a column"},
		{"bad order", queryFlags{order: "up"}, "expected asc|desc"},
		{"negative page", queryFlags{page: -1}, "--page"},
		{"negative size", queryFlags{pageSize: -5}, "--page-size"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.flags.query()
			assert.ErrorContains(t, err, tc.want)
		})
	}

	q, err := (&queryFlags{filters: []string{"topic=oil"}, search: "gas", sort: "intensity", order: "desc", page: 1, pageSize: 25}).query()
	require.NoError(t, err)
	assert.Equal(t, "oil", q.Filters["topic"])
	assert.Equal(t, "gas", q.Search)
	assert.Equal(t, 25, q.PageSize)
}

func TestPrintResult_WithoutContextIsJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, PrintResult(cmd, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, out.String())
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(&cobra.Command{})
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := runCLI(t, "http://127.0.0.1:1", "-o", "json", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"version": "dev"`)
	assert.Contains(t, stdout, `"go_version"`)
}

//Personal.AI order the ending
