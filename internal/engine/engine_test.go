// internal/engine/engine_test.go
package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairpinscan/internal/hairpin"
	"hairpinscan/internal/rnafold"
)

const (
	nestedStructure = ".(((...(((....)))...)))"
	nestedSeq       = "ACGUACGUACGUACGUACGUACG"
)

func hpCfg(threshold int) hairpin.Config {
	return hairpin.Config{LoopMin: 3, BulgeMax: 2, Threshold: threshold, Mode: hairpin.CountMode}
}

func rec(id, seq, structure string) rnafold.Record {
	return rnafold.Record{ID: id, Seq: seq, HasSeq: seq != "", Structure: structure}
}

func TestProcess_SpanRemap(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(6)}, nil)
	got := eng.Process(rec("G1", nestedSeq, nestedStructure))

	want := Result{
		ID:        "G1",
		Verdict:   hairpin.Accepted,
		Structure: nestedStructure,
		Candidate: ptr("(((....)))"),
		Start:     ptr(1),
		End:       ptr(22),
		Seq:       ptr(nestedSeq[1:23]),
		Attempts:  1,
		Reason:    hairpin.ReasonAccepted,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.Accepted())
}

func TestProcess_LocateRemap(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(6), Remap: RemapLocate}, nil)
	got := eng.Process(rec("G1", nestedSeq, nestedStructure))

	require.Equal(t, hairpin.Accepted, got.Verdict)
	assert.Equal(t, 7, *got.Start)
	assert.Equal(t, 16, *got.End)
	assert.Equal(t, nestedSeq[7:17], *got.Seq)
	assert.Equal(t, *got.Candidate, nestedStructure[*got.Start:*got.End+1])
}

func TestProcess_RejectedReportsScannerState(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(4)}, nil)
	got := eng.Process(rec("G2", "ACGUACGU", "(.)((.))"))

	assert.Equal(t, hairpin.Rejected, got.Verdict)
	assert.Equal(t, "(.)((.))", got.Structure, "the scan sentinel stays out of the structure")
	require.NotNil(t, got.Candidate)
	assert.Equal(t, "((.))", *got.Candidate)
	require.NotNil(t, got.Start)
	assert.Equal(t, 8, *got.Start, "the sentinel position, one past the structure")
	assert.Nil(t, got.End)
	require.NotNil(t, got.Seq)
	assert.Equal(t, "ACGUACGU", *got.Seq, "rejections carry the whole sequence")
}

func TestProcess_NoSpanNoSequence(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(4)}, nil)
	got := eng.Process(rec("G3", "", "......"))

	assert.Equal(t, hairpin.Rejected, got.Verdict)
	assert.Equal(t, hairpin.ReasonNoSpan, got.Reason)
	assert.Nil(t, got.Candidate)
	assert.Nil(t, got.Start)
	assert.Nil(t, got.End)
	assert.Nil(t, got.Seq)
	assert.Nil(t, got.MFE)
}

func TestProcess_PrefixLimit(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(4), MaxPrefix: 5}, nil)
	got := eng.Process(rec("G4", "GGGAAACCC", "((...))"))

	assert.Equal(t, "((...", got.Structure)
	assert.Equal(t, hairpin.Rejected, got.Verdict)
	require.NotNil(t, got.Seq)
	assert.Equal(t, "GGGAA", *got.Seq)
}

func TestProcess_SequenceShorterThanSpan(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(4)}, nil)
	got := eng.Process(rec("G5", "GGGA", "((...))"))

	require.Equal(t, hairpin.Accepted, got.Verdict)
	assert.Equal(t, "GGGA", *got.Seq)
}

func TestProcess_MFEPassThrough(t *testing.T) {
	eng := New(Config{Hairpin: hpCfg(4)}, nil)
	r := rec("G6", "GGGAAACCC", "(((...)))")
	r.MFE, r.HasMFE = -2.5, true
	got := eng.Process(r)
	require.NotNil(t, got.MFE)
	assert.InDelta(t, -2.5, *got.MFE, 1e-9)
}

func TestProcess_TraceCarriesID(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	eng := New(Config{Hairpin: hpCfg(6)}, logger)
	eng.Process(rec("G7", nestedSeq, nestedStructure))

	require.NotEmpty(t, hook.AllEntries())
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "G7", e.Data["id"], e.Message)
	}
}

func TestLocate(t *testing.T) {
	s := "..((..))..((..)).."
	i, ok := locate(s, "((..))", 8, 15)
	require.True(t, ok)
	assert.Equal(t, 10, i)

	_, ok = locate(s, "(((..)))", 0, len(s)-1)
	assert.False(t, ok)
	_, ok = locate(s, "((..))", 8, 12)
	assert.False(t, ok, "match past the span end")
	_, ok = locate(s, "", 0, 3)
	assert.False(t, ok)
}

func TestParseRemap(t *testing.T) {
	m, err := ParseRemap("LOCATE")
	require.NoError(t, err)
	assert.Equal(t, RemapLocate, m)
	assert.Equal(t, "locate", m.String())

	m, err = ParseRemap("")
	require.NoError(t, err)
	assert.Equal(t, RemapSpan, m)

	_, err = ParseRemap("fuzzy")
	assert.Error(t, err)
}
