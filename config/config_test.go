package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndNormalize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bpstat.yaml")
	body := `
mediation:
  n: -5
  seed: 77
survey:
  demofile: "  data/demo.csv "
  bmxfile: data/bmx.csv
  bpxfile: data/bpx.csv
logfile: logs/bpstat.log
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 400, c.Mediation.N, "invalid n falls back to default")
	require.Equal(t, uint64(77), c.Mediation.Seed)
	require.Equal(t, "data/demo.csv", c.Survey.DemoFile)
}

func TestInitEmptyPathUsesDefaults(t *testing.T) {
	require.NoError(t, Init(""))
	c := Get()
	require.Equal(t, 400, c.Mediation.N)
	require.NotZero(t, c.Mediation.Seed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/bpstat.yaml")
	require.Error(t, err)
}
