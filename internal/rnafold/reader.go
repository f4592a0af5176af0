// internal/rnafold/reader.go
package rnafold

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/TimothyStiles/poly/checks"

	"hairpinscan/internal/dotbracket"
)

// Record is one transcript of RNAfold-style output: a header, the nucleotide
// sequence and the predicted structure (optionally with its free energy).
type Record struct {
	ID        string // empty when the header carried no identifier
	Header    string
	Seq       string
	HasSeq    bool
	Structure string
	MFE       float64
	HasMFE    bool
	Source    string // input path, "-" for stdin
	Line      int    // 1-based line number of the structure line

	// BadStructure is set when the structure token holds symbols outside
	// the dot-bracket alphabet; Structure then is only its leading run.
	BadStructure bool
}

// Skipped reports whether the record has no identifier and cannot be emitted.
func (r Record) Skipped() bool { return r.ID == "" }

// PlainSequence reports whether Seq is spelled in A, C, G and U (or T) only,
// case-insensitively. Ambiguity codes such as N make it false.
func (r Record) PlainSequence() bool {
	s := strings.ToUpper(r.Seq)
	return checks.IsRNA(s) || checks.IsDNA(s)
}

// Options controls record parsing.
type Options struct {
	// IDKey is the header key holding the identifier ("geneID" reads
	// "geneID=XYZ;"). Empty means the first header token.
	IDKey string
}

type pending struct {
	header string
	id     string
	seq    []byte
	hasSeq bool
	done   bool // structure line already emitted
}

// StreamCtx parses records from r and calls emit once per structure line that
// follows a header. Sequence lines before the structure are concatenated; lines
// after the first structure of a record are ignored. Return a non-nil error
// from emit to stop early. Cancellation via ctx is checked between lines.
func StreamCtx(ctx context.Context, r io.Reader, opt Options, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		cur    *pending
		lineNo int
	)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		switch c := line[0]; {
		case c == '>':
			hdr := string(line[1:])
			cur = &pending{header: hdr, id: ParseID(hdr, opt.IDKey)}
		case dotbracket.IsNucleotide(c):
			if cur == nil || cur.done {
				continue
			}
			cur.seq = append(cur.seq, line...)
			cur.hasSeq = true
		case dotbracket.IsSymbol(c):
			if cur == nil || cur.done {
				continue
			}
			cur.done = true
			sl := ParseStructureLine(string(line))
			rec := Record{
				ID:           cur.id,
				Header:       cur.header,
				Seq:          string(cur.seq),
				HasSeq:       cur.hasSeq,
				Structure:    sl.Structure,
				MFE:          sl.MFE,
				HasMFE:       sl.HasMFE,
				Line:         lineNo,
				BadStructure: !sl.Valid,
			}
			if err := emit(rec); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("rnafold scan: %w", err)
	}
	return nil
}

// StreamPathCtx opens path (see Open) and streams its records.
func StreamPathCtx(ctx context.Context, path string, opt Options, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()

	return StreamCtx(ctx, rc, opt, func(rec Record) error {
		rec.Source = path
		return emit(rec)
	})
}
