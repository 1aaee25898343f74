package blacklist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// CompressedExt marks snappy-compressed blacklist files.
const CompressedExt = ".sz"

// ErrMalformed is returned for unparseable blacklist lines.
var ErrMalformed = errors.New("malformed blacklist line")

func contextCode(c Context) string {
	switch c {
	case Input:
		return "I"
	case Output:
		return "O"
	default:
		return "B"
	}
}

func parseContext(s string) (Context, bool) {
	switch strings.ToUpper(s) {
	case "I":
		return Input, true
	case "O":
		return Output, true
	case "B", "":
		return Both, true
	default:
		return Both, false
	}
}

// Write writes one "id<TAB>score<TAB>I|O|B" line per entry, most ubiquitous first.
func (b *Blacklist) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range b.Entries() {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%s\n", e.ID, e.Score, contextCode(e.Context)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses the format produced by Write. Blank lines and lines starting
// with '#' are skipped; the score and context columns are optional.
func Read(r io.Reader) (*Blacklist, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) > 3 || fields[0] == "" {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformed, line, text)
		}
		e := Entry{ID: fields[0], Score: 1}
		if len(fields) > 1 {
			score, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w %d: bad score: %v", ErrMalformed, line, err)
			}
			e.Score = score
		}
		if len(fields) > 2 {
			ctx, ok := parseContext(fields[2])
			if !ok {
				return nil, fmt.Errorf("%w %d: bad context %q", ErrMalformed, line, fields[2])
			}
			e.Context = ctx
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(entries...), nil
}

// LoadFile memory-maps and parses a blacklist file. Files ending in
// CompressedExt hold a snappy block.
func LoadFile(path string) (*Blacklist, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blacklist: %w", err)
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read blacklist: %w", err)
	}

	if strings.HasSuffix(path, CompressedExt) {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("decompress blacklist: %w", err)
		}
	}
	return Read(bytes.NewReader(data))
}

// SaveFile writes the blacklist to path, compressing when the name ends in
// CompressedExt.
func (b *Blacklist) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		return err
	}
	data := buf.Bytes()
	if strings.HasSuffix(path, CompressedExt) {
		data = snappy.Encode(nil, data)
	}
	return os.WriteFile(path, data, 0o644)
}
