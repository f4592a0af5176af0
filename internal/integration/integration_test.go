// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairpinscan/internal/app"
	"hairpinscan/pkg/api"
)

const (
	struct1 = "..((((((((((((((((....)))))))))))))))).."
	seq1    = "AAGGCCAUGGCCAUGGCCAUAAAAUGGCCAUGGCCAUGCC"
	struct2 = "....((((....))))...."
	seq2    = "ACGUACGUACGUACGUACGU"
)

func fold(header, seq, structure, mfe string) string {
	return fmt.Sprintf(">%s\n%s\n%s (%s)\n", header, seq, structure, mfe)
}

func write(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

func input(t *testing.T) string {
	return write(t, "batch.fold",
		fold("t1 geneID=HP1;", seq1, struct1, "-20.10")+
			fold("t2 geneID=HP2;", seq2, struct2, "-3.40")+
			fold("t3 chr=7", seq2, struct2, "-3.40"))
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestEndToEnd_ClassicTSV(t *testing.T) {
	code, out, stderr := run(t, input(t))
	require.Equal(t, 0, code, stderr)

	want := "GeneID\tHairpin\tTrimmed Str\tCandidate Hairpin Str\tStartPos\tEndPos\tRNA\n" +
		"HP1\tY\t" + struct1 + "\t" + struct1[2:38] + "\t2\t37\t" + seq1[2:38] + "\n" +
		"HP2\tN\t" + struct2 + "\t((((....))))\t20\t\t" + seq2 + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, stderr, "no identifier in header")
	assert.Contains(t, stderr, "1 transcript(s) skipped")
}

func TestQuietSilencesStderr(t *testing.T) {
	code, _, stderr := run(t, "-q", input(t))
	require.Equal(t, 0, code)
	assert.Empty(t, stderr)
}

func TestParallelMatchesEqualSerial(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		if i%2 == 0 {
			b.WriteString(fold(fmt.Sprintf("t geneID=A%d;", i), seq1, struct1, "-1"))
		} else {
			b.WriteString(fold(fmt.Sprintf("t geneID=B%d;", i), seq2, struct2, "-1"))
		}
	}
	fn := write(t, "many.fold", b.String())

	runT := func(threads int) string {
		code, out, stderr := run(t, "--threads", fmt.Sprint(threads), "--format", "json", fn)
		require.Equal(t, 0, code, stderr)
		return out
	}

	serial := runT(1)
	parallel := runT(4)
	if serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial: %s\nparallel:%s", serial, parallel)
	}
	var recs []api.RecordV1
	require.NoError(t, json.Unmarshal([]byte(serial), &recs))
	assert.Len(t, recs, 300)
}

func TestCSVOutputFileOneBased(t *testing.T) {
	outFn := filepath.Join(t.TempDir(), "hits.csv")
	code, stdout, stderr := run(t, "-q", "--one-based", "--no-header", "-o", outFn, input(t))
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outFn)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "HP1,Y,"+struct1+","+struct1[2:38]+",3,38,"+seq1[2:38], lines[0])
}

func TestGzipOutputAndInput(t *testing.T) {
	dir := t.TempDir()
	inFn := filepath.Join(dir, "in.fold.gz")
	fh, err := os.Create(inFn)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = io.WriteString(gw, fold("t1 geneID=HP1;", seq1, struct1, "-20.10"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	outFn := filepath.Join(dir, "out.jsonl.gz")
	code, _, stderr := run(t, "-o", outFn, inFn)
	require.Equal(t, 0, code, stderr)

	rf, err := os.Open(outFn)
	require.NoError(t, err)
	defer rf.Close()
	gr, err := gzip.NewReader(rf)
	require.NoError(t, err)
	var rec api.RecordV1
	require.NoError(t, json.NewDecoder(gr).Decode(&rec))
	assert.Equal(t, "HP1", rec.GeneID)
	assert.Equal(t, "Y", rec.Hairpin)
}

func TestExtendedPresetMFEColumn(t *testing.T) {
	code, out, stderr := run(t, "-q", "--preset", "extended", "--threshold", "30", "--format", "tsv", input(t))
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "\tRNA\tMFE"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "HP1\tY\t"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "\t-20.10"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "\t-3.40"), lines[2])
}

func TestConfigFileAndEnv(t *testing.T) {
	in := input(t)
	cfg := write(t, "scan.yaml", "threshold: 8\n")
	code, out, stderr := run(t, "-q", "--config", cfg, in)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "HP2\tY\t")

	t.Setenv("HAIRPINSCAN_THRESHOLD", "8")
	code, out, _ = run(t, "-q", in)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "HP2\tY\t")

	code, out, _ = run(t, "-q", "--threshold", "30", in)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "HP2\tN\t", "flag beats env")
}

func TestLogFileTrace(t *testing.T) {
	logFn := filepath.Join(t.TempDir(), "scan.log")
	code, _, stderr := run(t, "--log-file", logFn, input(t))
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(logFn)
	require.NoError(t, err)
	trace := string(data)
	assert.Contains(t, trace, "hairpin found")
	assert.Contains(t, trace, "id=HP1")
	assert.Contains(t, trace, "run_id=")
	assert.Contains(t, trace, "run finished")
	assert.NotContains(t, stderr, "hairpin found", "trace stays in the file")
}

func TestNoMatchExitCode(t *testing.T) {
	fn := write(t, "miss.fold", fold("t2 geneID=HP2;", seq2, struct2, "-3.40"))
	code, out, _ := run(t, "--no-match-exit-code", "5", fn)
	assert.Equal(t, 5, code)
	assert.Contains(t, out, "HP2\tN\t")

	code, _, _ = run(t, fn)
	assert.Equal(t, 0, code)
}

func TestExitCodes(t *testing.T) {
	in := input(t)

	code, _, stderr := run(t, "--bogus", in)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--help")

	code, _, _ = run(t, "--preset", "nope", in)
	assert.Equal(t, 2, code)

	code, _, _ = run(t, "--format", "fasta", in)
	assert.Equal(t, 2, code)

	code, _, stderr = run(t, filepath.Join(t.TempDir(), "missing.fold"))
	assert.Equal(t, 3, code)
	assert.NotEmpty(t, stderr)

	code, _, _ = run(t, "-o", filepath.Join(t.TempDir(), "no", "dir", "out.tsv"), in)
	assert.Equal(t, 3, code)
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := run(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "hairpinscan")
	assert.Contains(t, out, "--loop-min")

	code, out, _ = run(t, "--version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "hairpinscan version "))

	code, out, _ = run(t, "--examples")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "quickstart")
}

func TestPrintConfigFeedsBack(t *testing.T) {
	code, dump, stderr := run(t, "--preset", "extended", "--threshold", "8", "--print-config")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, dump, "preset: extended\n")
	assert.Contains(t, dump, "threshold: 8\n")

	cfg := write(t, "dump.yaml", dump)
	code, out, stderr := run(t, "-q", "--config", cfg, input(t))
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(out, "GeneID\tHairpin\t"))
	assert.Contains(t, out, "HP1\tY\t")
}
