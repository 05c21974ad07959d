package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/xlranker/readers"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Model.Runs)
	assert.Equal(t, 5, cfg.Model.Folds)
	assert.Equal(t, "best", cfg.Selection.Policy)
	assert.Equal(t, "minimal", cfg.Output.ReportLevel)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xlranker.yaml")
	data := []byte("seed: 42\nmodel:\n  runs: 3\nselection:\n  policy: threshold\n  threshold: 0.7\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 3, cfg.Model.Runs)
	assert.Equal(t, 5, cfg.Model.Folds)
	assert.Equal(t, "threshold", cfg.Selection.Policy)
	assert.InDelta(t, 0.7, cfg.Selection.Threshold, 1e-12)
	assert.Equal(t, "|", cfg.Inputs.Mapping.SplitBy)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unterminated"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "xlranker.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Inputs.Network = "network.tsv"
	cfg.Inputs.Omics = map[string]string{"rna": "rna.tsv", "protein": "protein.tsv"}
	cfg.Inputs.PrimaryOmic = "protein"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvFragile, "true")
	t.Setenv(EnvDB, "/tmp/xlranker.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.True(t, cfg.Fragile)
	assert.Equal(t, "/tmp/xlranker.db", cfg.Store.Path)
}

func TestEnvOverrideInvalidSeed(t *testing.T) {
	t.Setenv(EnvSeed, "not-a-number")
	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Runs = 0
	cfg.Model.Folds = 1
	cfg.Selection.Policy = "coinflip"
	cfg.Output.ReportLevel = "verbose"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"model.runs", "model.folds", "selection", "report_level", "logging.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateInputs(t *testing.T) {
	cfg := DefaultConfig()
	require.ErrorIs(t, cfg.ValidateInputs(), ErrInvalid)

	cfg.Inputs.Network = "network.tsv"
	cfg.Inputs.Mapping.Path = "proteome.fasta"
	require.NoError(t, cfg.ValidateInputs())

	cfg.Inputs.PrimaryOmic = "rna"
	require.ErrorIs(t, cfg.ValidateInputs(), ErrInvalid)
}

func TestFastaOptions(t *testing.T) {
	cfg := DefaultConfig()
	fo, err := cfg.FastaOptions()
	require.NoError(t, err)
	assert.Equal(t, readers.DefaultFastaOptions(), fo)

	cfg.Inputs.Mapping.FastaType = "GENCODE"
	cfg.Inputs.Mapping.SplitBy = ""
	_, err = cfg.FastaOptions()
	require.Error(t, err)
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	cfg.Model.Parallelism = 2

	ec := cfg.EnsembleConfig()
	assert.Equal(t, 10, ec.Runs)
	assert.Equal(t, int64(11), ec.Seed)
	assert.Equal(t, 2, ec.Parallelism)

	sp := cfg.SelectionParams()
	assert.Equal(t, int64(11), sp.Seed)
	assert.Equal(t, 1, sp.TopN)
}
