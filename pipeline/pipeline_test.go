package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/xlranker/config"
	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/ml"
	"github.com/katalvlaran/xlranker/pipeline"
	"github.com/katalvlaran/xlranker/readers"
	"github.com/katalvlaran/xlranker/report"
	"github.com/katalvlaran/xlranker/store"
)

// Four peptide pairs: three resolve to a single protein pair each, and
// PEPE maps to two proteins so P5+P7 and P6+P7 stay ambiguous.
const (
	networkTSV = "peptide_a\tpeptide_b\n" +
		"PEPA\tPEPB\n" +
		"PEPC\tPEPD\n" +
		"PEPE\tPEPF\n" +
		"PEPG\tPEPH\n"

	mappingTSV = "PEPA\tP1\n" +
		"PEPB\tP2\n" +
		"PEPC\tP3\n" +
		"PEPD\tP4\n" +
		"PEPE\tP5\tP6\n" +
		"PEPF\tP7\n" +
		"PEPG\tP8\n" +
		"PEPH\tP9\n"

	omicsTSV = "protein\trep1\trep2\n" +
		"P1\t10\t12\n" +
		"P2\t8\t8\n" +
		"P3\t9\tNA\n" +
		"P4\t7\t7\n" +
		"P5\t3\t5\n" +
		"P6\t1\t1\n" +
		"P7\t6\t6\n" +
		"P8\t11\t11\n" +
		"P9\t2\t4\n"

	goldTSV = "protein_a\tprotein_b\nP1\tP2\nP7\tP5\n"
)

type PipelineSuite struct {
	suite.Suite
	dir string
	cfg *config.Config
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.dir = s.T().TempDir()
	cfg := config.DefaultConfig()
	cfg.Seed = 3
	cfg.Inputs.Network = s.write("network.tsv", networkTSV)
	cfg.Inputs.Mapping.IsFasta = false
	cfg.Inputs.Mapping.Path = s.write("mapping.tsv", mappingTSV)
	cfg.Inputs.Omics = map[string]string{"abundance": s.write("omics.tsv", omicsTSV)}
	cfg.Inputs.PrimaryOmic = "abundance"
	cfg.Inputs.GoldStandard = s.write("gold.tsv", goldTSV)
	cfg.Model = config.ModelConfig{Runs: 2, Folds: 2, Parallelism: 1}
	cfg.Output = config.OutputConfig{Dir: filepath.Join(s.dir, "out"), ReportLevel: "all"}
	s.cfg = cfg
}

func (s *PipelineSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *PipelineSuite) lines(name string) []string {
	data, err := os.ReadFile(filepath.Join(s.cfg.Output.Dir, name))
	s.Require().NoError(err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func (s *PipelineSuite) TestBuildDataSet() {
	p, err := pipeline.New(s.cfg)
	s.Require().NoError(err)
	ds, err := p.BuildDataSet(context.Background())
	s.Require().NoError(err)

	s.Equal([]string{"P1+P2", "P3+P4", "P5+P7", "P6+P7", "P8+P9"}, ds.ProteinPairIDs())
	s.Equal([]string{"abundance"}, ds.Sources())

	pp, ok := ds.ProteinPair("P5+P7")
	s.Require().True(ok)
	s.Equal("P7", pp.A.Name, "higher abundance first")
	s.Equal([]string{"PEPE+PEPF"}, pp.Connections())
}

// TestBuildDataSetSharedPrimarySource leaves primary_omic unset with two
// sources, where P1 lacks the alphabetically first one. Both proteins must
// still order by that same source, so P2 (the only one with a value) leads.
func (s *PipelineSuite) TestBuildDataSetSharedPrimarySource() {
	s.cfg.Inputs.Network = s.write("one_pair.tsv", "PEPA\tPEPB\n")
	s.cfg.Inputs.Omics = map[string]string{
		"protein": s.write("protein.tsv", "protein\tv\nP2\t5\n"),
		"rna":     s.write("rna.tsv", "protein\tv\nP1\t100\nP2\t1000\n"),
	}
	s.cfg.Inputs.PrimaryOmic = ""

	p, err := pipeline.New(s.cfg)
	s.Require().NoError(err)
	ds, err := p.BuildDataSet(context.Background())
	s.Require().NoError(err)

	pp, ok := ds.ProteinPair("P1+P2")
	s.Require().True(ok)
	s.Equal("protein", pp.A.MainSource)
	s.Equal("protein", pp.B.MainSource)
	s.Equal("P2", pp.A.Name)
}

func (s *PipelineSuite) TestRun() {
	st, err := store.Open(store.MemoryPath)
	s.Require().NoError(err)
	defer st.Close()

	p, err := pipeline.New(s.cfg, pipeline.WithSaver(st))
	s.Require().NoError(err)
	out, err := p.Run(context.Background())
	s.Require().NoError(err)

	s.Equal(4, out.Groups)
	s.Equal(3, out.Parsimony.Primary)
	s.Require().NotNil(out.Ensemble)
	s.Len(out.Ensemble.RunAUCs, 2)
	s.Len(out.Ensemble.Predictions, 2)

	counts := out.DataSet.StatusCounts()
	s.Equal(3, counts[core.ParsimonyPrimarySelected])
	s.Equal(1, counts[core.MLPrimarySelected])
	s.Equal(1, counts[core.MLNotSelected])
	s.Zero(counts[core.ParsimonyAmbiguous])
	s.Len(out.Selection, 2)

	pairs := s.lines(report.PairsFile)
	s.Equal(report.PairsHeader, pairs[0])
	s.Len(pairs, 6)
	s.Len(s.lines(report.PredictionsFile), 3)

	s.NotEmpty(out.Run.ID)
	s.Equal(pipeline.ModeFull, out.Run.Mode)
	stored, err := st.Pairs(context.Background(), out.Run.ID, "")
	s.Require().NoError(err)
	s.Len(stored, 5)
	aucs, err := st.AUCs(context.Background(), out.Run.ID)
	s.Require().NoError(err)
	s.Len(aucs, 2)
}

func (s *PipelineSuite) TestRunIsReproducible() {
	scores := func(parallelism int) map[string]float64 {
		cfg := *s.cfg
		cfg.Model.Parallelism = parallelism
		cfg.Output.Dir = filepath.Join(s.dir, "out", "p", string(rune('0'+parallelism)))
		p, err := pipeline.New(&cfg)
		s.Require().NoError(err)
		out, err := p.Run(context.Background())
		s.Require().NoError(err)
		got := make(map[string]float64)
		for _, pred := range out.Ensemble.Predictions {
			got[pred.PairID] = pred.Score
		}
		return got
	}
	s.Equal(scores(1), scores(2))
}

func (s *PipelineSuite) TestParsimonyOnly() {
	p, err := pipeline.New(s.cfg)
	s.Require().NoError(err)
	out, err := p.ParsimonyOnly(context.Background(), false)
	s.Require().NoError(err)

	s.Nil(out.Ensemble)
	s.Nil(out.Selection)
	s.Equal(2, out.DataSet.StatusCounts()[core.ParsimonyAmbiguous])
	s.Contains(s.lines(report.PairsFile), "P5+P7\tPARSIMONY_AMBIGUOUS\t3.1")
	s.NoFileExists(filepath.Join(s.cfg.Output.Dir, report.PredictionsFile))
}

func (s *PipelineSuite) TestParsimonyOnlyFull() {
	p, err := pipeline.New(s.cfg)
	s.Require().NoError(err)
	out, err := p.ParsimonyOnly(context.Background(), true)
	s.Require().NoError(err)

	counts := out.DataSet.StatusCounts()
	s.Equal(1, counts[core.MLPrimarySelected])
	s.Equal(1, counts[core.MLNotSelected])
	s.Zero(counts[core.MLSecondarySelected])
}

func (s *PipelineSuite) TestFastaMapping() {
	fasta := ">sp|Q00001|ONE_HUMAN One OS=Homo sapiens GN=gene1 PE=1\nMKPEPAQQPEPCRR\n" +
		">sp|Q00002|TWO_HUMAN Two OS=Homo sapiens GN=GENE2 PE=1\nMTPEPBWWPEPDKK\n"
	s.cfg.Inputs.Network = s.write("fasta_network.tsv", "PEPA\tPEPB\nPEPC\tPEPD\n")
	s.cfg.Inputs.Mapping = config.MappingConfig{Path: s.write("proteome.fasta", fasta), IsFasta: true, FastaType: "UNIPROT"}
	s.cfg.Inputs.Omics = nil
	s.cfg.Inputs.PrimaryOmic = ""

	p, err := pipeline.New(s.cfg)
	s.Require().NoError(err)
	out, err := p.ParsimonyOnly(context.Background(), false)
	s.Require().NoError(err)

	s.Equal([]string{"GENE1+GENE2"}, out.DataSet.ProteinPairIDs())
	s.Equal(1, out.DataSet.StatusCounts()[core.ParsimonyPrimarySelected])
}

func (s *PipelineSuite) TestFailedRunWritesNothing() {
	s.cfg.Inputs.Network = s.write("no_ambiguity.tsv", "PEPA\tPEPB\nPEPC\tPEPD\n")
	p, err := pipeline.New(s.cfg)
	s.Require().NoError(err)

	_, err = p.Run(context.Background())
	s.Require().ErrorIs(err, ml.ErrNoAmbiguous)
	s.NoDirExists(s.cfg.Output.Dir)
}

// failingSaver rejects every run.
type failingSaver struct{ err error }

func (f failingSaver) SaveRun(context.Context, store.Run, []*core.ProteinPair, []float64) (store.Run, error) {
	return store.Run{}, f.err
}

func (s *PipelineSuite) TestStoreFailureWritesNothing() {
	boom := errors.New("disk full")
	p, err := pipeline.New(s.cfg, pipeline.WithSaver(failingSaver{err: boom}))
	s.Require().NoError(err)

	_, err = p.ParsimonyOnly(context.Background(), false)
	s.Require().ErrorIs(err, boom)
	s.NoDirExists(s.cfg.Output.Dir)

	staged, err := filepath.Glob(filepath.Join(s.dir, ".xlranker-*"))
	s.Require().NoError(err)
	s.Empty(staged)
}

func (s *PipelineSuite) TestUnmappedPeptide() {
	s.cfg.Inputs.Network = s.write("unmapped.tsv", networkTSV+"PEPX\tPEPA\n")

	zc, logs := observer.New(zapcore.WarnLevel)
	p, err := pipeline.New(s.cfg, pipeline.WithLogger(zap.New(zc)))
	s.Require().NoError(err)
	_, err = p.ParsimonyOnly(context.Background(), false)
	s.Require().NoError(err)
	s.Equal(1, logs.FilterMessage("sequence not found in mapping table").Len())

	s.cfg.Fragile = true
	p, err = pipeline.New(s.cfg)
	s.Require().NoError(err)
	_, err = p.ParsimonyOnly(context.Background(), false)
	s.Require().ErrorIs(err, readers.ErrUnmappedSequence)
}

func (s *PipelineSuite) TestNewRejectsInvalidConfig() {
	s.cfg.Model.Folds = 1
	_, err := pipeline.New(s.cfg)
	s.Require().ErrorIs(err, config.ErrInvalid)

	_, err = pipeline.New(nil)
	s.Require().ErrorIs(err, config.ErrInvalid)
}
