package repo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/grove-vcs/grove/modules/binary"
	"github.com/grove-vcs/grove/modules/diferenco"
)

// lineOp is one step of a replayable line-level edit script: copy n lines
// from the base (Equal), drop n lines from the base (Delete), or splice in
// Lines verbatim (Insert).
type lineOp struct {
	Kind  diferenco.Operation
	Lines []string
}

func splitLines(content []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), bufio.MaxScanTokenSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// computeLineDelta diffs base against next line by line, used whenever a
// path has a prior full blob but no structural delta was produced: its
// language is unrecognized, has no registered tree parser, or failed to parse.
func computeLineDelta(ctx context.Context, base, next []byte) ([]lineOp, error) {
	diffs, err := diferenco.DiffSlices(ctx, splitLines(base), splitLines(next))
	if err != nil {
		return nil, err
	}
	ops := make([]lineOp, 0, len(diffs))
	for _, d := range diffs {
		ops = append(ops, lineOp{Kind: d.T, Lines: d.E})
	}
	return ops, nil
}

// encodeLineDelta packs an edit script as a sequence of (op byte, line
// count, line bytes...) records, each length using the same
// variable-width integer encoding modules/binary already defines for
// pack-style offsets.
func encodeLineDelta(ops []lineOp) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		buf.WriteByte(byte(op.Kind + 1)) // Operation is -1..1; shift into a byte
		_ = binary.WriteVariableWidthInt(&buf, int64(len(op.Lines)))
		for _, l := range op.Lines {
			_ = binary.WriteVariableWidthInt(&buf, int64(len(l)))
			buf.WriteString(l)
		}
	}
	return buf.Bytes()
}

func decodeLineDelta(data []byte) ([]lineOp, error) {
	r := bufio.NewReader(bytes.NewReader(data))
	var ops []lineOp
	for {
		kindByte, err := r.ReadByte()
		if err != nil {
			break
		}
		n, err := binary.ReadVariableWidthInt(r)
		if err != nil {
			return nil, fmt.Errorf("repo: malformed line-delta record: %w", err)
		}
		lines := make([]string, n)
		for i := int64(0); i < n; i++ {
			ln, err := binary.ReadVariableWidthInt(r)
			if err != nil {
				return nil, fmt.Errorf("repo: truncated line-delta length: %w", err)
			}
			buf := make([]byte, ln)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("repo: truncated line-delta body: %w", err)
			}
			lines[i] = string(buf)
		}
		ops = append(ops, lineOp{Kind: diferenco.Operation(int(kindByte) - 1), Lines: lines})
	}
	return ops, nil
}

// applyLineDelta replays an edit script over base to reconstruct the
// revision it was diffed against.
func applyLineDelta(base []byte, ops []lineOp) ([]byte, error) {
	baseLines := splitLines(base)
	pos := 0
	var out bytes.Buffer
	for _, op := range ops {
		switch op.Kind {
		case diferenco.Equal:
			if pos+len(op.Lines) > len(baseLines) {
				return nil, fmt.Errorf("repo: line-delta equal run exceeds base length")
			}
			for _, l := range baseLines[pos : pos+len(op.Lines)] {
				out.WriteString(l)
				out.WriteByte('\n')
			}
			pos += len(op.Lines)
		case diferenco.Delete:
			pos += len(op.Lines)
		case diferenco.Insert:
			for _, l := range op.Lines {
				out.WriteString(l)
				out.WriteByte('\n')
			}
		}
	}
	return out.Bytes(), nil
}
