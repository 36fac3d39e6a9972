package source

import (
	"testing"
)

func TestToLineCol(t *testing.T) {
	content := []byte("unit A;\ninterface\nend.\n")
	idx := buildLineIndex(content)

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{name: "start of file", off: 0, want: LineCol{Line: 1, Col: 1}},
		{name: "middle of first line", off: 5, want: LineCol{Line: 1, Col: 6}},
		{name: "newline offset belongs to its line", off: 7, want: LineCol{Line: 1, Col: 8}},
		{name: "start of second line", off: 8, want: LineCol{Line: 2, Col: 1}},
		{name: "start of third line", off: 18, want: LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toLineCol(idx, tt.off); got != tt.want {
				t.Fatalf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
		})
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.pas", []byte("program P;\nbegin\nend.\n"))
	f := fs.Get(id)

	for off := uint32(0); off < uint32(len(f.Content)); off++ {
		pos := f.Pos(off)
		if back := f.Offset(pos); back != off {
			t.Fatalf("offset %d -> %+v -> %d", off, pos, back)
		}
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc\n"))
	if !changed {
		t.Fatal("expected change flag")
	}
	if string(out) != "a\nb\rc\n" {
		t.Fatalf("unexpected result %q", out)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.pas", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	if got := f.GetLine(2); got != "two" {
		t.Fatalf("GetLine(2) = %q, want %q", got, "two")
	}
	if got := f.GetLine(3); got != "three" {
		t.Fatalf("GetLine(3) = %q, want %q", got, "three")
	}
	if got := f.GetLine(4); got != "" {
		t.Fatalf("GetLine(4) = %q, want empty", got)
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 8}
	if !s.Contains(4) || !s.Contains(7) {
		t.Fatal("span should contain its start and last byte")
	}
	if s.Contains(8) {
		t.Fatal("span end is exclusive")
	}
}
