package frame

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := FromColumns(
		[]string{"Name", "Age"},
		[]Value{String("Tanaka"), String("Suzuki"), String("Sato"), String("Takahashi"), String("Ito")},
		[]Value{Int(25), Int(30), Int(22), Int(28), Int(33)},
	)
	if err != nil {
		t.Fatalf("FromColumns() error = %v", err)
	}
	return f
}

func TestFromColumns_LengthMismatch(t *testing.T) {
	_, err := FromColumns([]string{"A", "B"}, []Value{Int(1)}, []Value{Int(1), Int(2)})
	if err == nil {
		t.Fatal("Expected error for columns of different length")
	}

	_, err = FromColumns([]string{"A"}, []Value{Int(1)}, []Value{Int(2)})
	if err == nil {
		t.Fatal("Expected error for name/column count mismatch")
	}
}

func TestHead(t *testing.T) {
	f := sampleFrame(t)

	tests := []struct {
		n    int
		want int
	}{
		{n: 3, want: 3},
		{n: 5, want: 5},
		{n: 10, want: 5},
		{n: 0, want: 0},
		{n: -1, want: 0},
	}

	for _, tt := range tests {
		if got := f.Head(tt.n).Len(); got != tt.want {
			t.Errorf("Head(%d).Len() = %d, want %d", tt.n, got, tt.want)
		}
	}

	head := f.Head(2)
	if got := head.Rows()[1][0].String(); got != "Suzuki" {
		t.Errorf("Head(2) second row = %q, want Suzuki", got)
	}
}

func TestHeadDoesNotAliasAppends(t *testing.T) {
	f := sampleFrame(t)
	head := f.Head(2)
	if err := head.AddRow(String("Mori"), Int(40)); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}
	if got := f.Rows()[2][0].String(); got != "Sato" {
		t.Errorf("Appending to Head() changed the source frame: row 2 = %q", got)
	}
}

func TestAddRow_WrongWidth(t *testing.T) {
	f := New("A", "B")
	if err := f.AddRow(Int(1)); err == nil {
		t.Error("Expected error for short row")
	}
}

func TestColumnAndFloats(t *testing.T) {
	f := sampleFrame(t)

	ages, err := f.Floats("Age")
	if err != nil {
		t.Fatalf("Floats(Age) error = %v", err)
	}
	if ages[4] != 33 {
		t.Errorf("ages[4] = %v, want 33", ages[4])
	}

	if _, err := f.Floats("Name"); err == nil {
		t.Error("Expected error for non-numeric column")
	}

	if _, err := f.Column("Missing"); !errors.Is(err, ErrNoColumn) {
		t.Errorf("Column(Missing) error = %v, want ErrNoColumn", err)
	}
}

func TestSortBy(t *testing.T) {
	f := sampleFrame(t)

	asc, err := f.SortBy("Age", false)
	if err != nil {
		t.Fatalf("SortBy() error = %v", err)
	}
	if got := asc.Rows()[0][0].String(); got != "Sato" {
		t.Errorf("youngest = %q, want Sato", got)
	}

	desc, err := f.SortBy("Age", true)
	if err != nil {
		t.Fatalf("SortBy() error = %v", err)
	}
	if got := desc.Rows()[0][0].String(); got != "Ito" {
		t.Errorf("oldest = %q, want Ito", got)
	}

	byName, _ := f.SortBy("Name", false)
	if got := byName.Rows()[0][0].String(); got != "Ito" {
		t.Errorf("first by name = %q, want Ito", got)
	}

	if f.Rows()[0][0].String() != "Tanaka" {
		t.Error("SortBy modified the source frame")
	}
}

func TestSetIndex(t *testing.T) {
	f, err := FromColumns(
		[]string{"Category", "Value"},
		[]Value{String("A"), String("B"), String("C"), String("D")},
		[]Value{Int(10), Int(25), Int(15), Int(30)},
	)
	if err != nil {
		t.Fatal(err)
	}

	indexed, err := f.SetIndex("Category")
	if err != nil {
		t.Fatalf("SetIndex() error = %v", err)
	}

	if got := strings.Join(indexed.Columns(), ","); got != "Value" {
		t.Errorf("Columns() = %q, want Value", got)
	}
	if got := strings.Join(indexed.Labels(), ","); got != "A,B,C,D" {
		t.Errorf("Labels() = %q, want A,B,C,D", got)
	}
	if indexed.IndexName() != "Category" {
		t.Errorf("IndexName() = %q", indexed.IndexName())
	}
}

func TestCut(t *testing.T) {
	f, _ := FromColumns(
		[]string{"x", "category"},
		[]Value{Float(0), Float(1), Float(2), Float(3)},
		[]Value{Float(-3), Float(0), Float(2.9), Float(3)},
	)

	cut, err := f.Cut("category", 3, []string{"G1", "G2", "G3"})
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}

	col, _ := cut.Column("category")
	want := []string{"G1", "G2", "G3", "G3"}
	for i, v := range col {
		if v.String() != want[i] {
			t.Errorf("row %d = %q, want %q", i, v.String(), want[i])
		}
	}

	if _, err := f.Cut("category", 2, []string{"only"}); err == nil {
		t.Error("Expected error for bins/labels mismatch")
	}
}

func TestCutConstantColumn(t *testing.T) {
	f, _ := FromColumns([]string{"c"}, []Value{Float(1), Float(1)})
	cut, err := f.Cut("c", 3, []string{"G1", "G2", "G3"})
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	col, _ := cut.Column("c")
	if col[0].String() != "G1" || col[1].String() != "G1" {
		t.Errorf("constant column should land in the first bin, got %v", col)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
	}{
		{"42", KindInt},
		{"-1.5", KindFloat},
		{"Tokyo", KindString},
		{"", KindString},
	}
	for _, tt := range tests {
		v := Parse(tt.in)
		if v.Kind() != tt.kind {
			t.Errorf("Parse(%q).Kind() = %v, want %v", tt.in, v.Kind(), tt.kind)
		}
		if v.String() != tt.in {
			t.Errorf("Parse(%q).String() = %q, want original text", tt.in, v.String())
		}
	}
}

func TestRandomAndUniform(t *testing.T) {
	src := NewSource(7)

	r := Random(src, 20, "A", "B", "C")
	if r.Len() != 20 || len(r.Columns()) != 3 {
		t.Fatalf("Random() shape = %dx%d, want 20x3", r.Len(), len(r.Columns()))
	}

	u := Uniform(src, 10, 5, "X", "Y", "Z")
	for _, name := range u.Columns() {
		values, err := u.Floats(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range values {
			if v < 0 || v >= 5 {
				t.Errorf("Uniform value %v out of [0, 5)", v)
			}
		}
	}
}

func TestNormalIsFinite(t *testing.T) {
	src := NewSource(1)
	for i := 0; i < 1000; i++ {
		v := Normal(src)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Normal() returned %v", v)
		}
	}
}

func TestSeededSourcesRepeat(t *testing.T) {
	a := Random(NewSource(42), 3, "A")
	b := Random(NewSource(42), 3, "A")
	for i := range a.Rows() {
		if a.Rows()[i][0].String() != b.Rows()[i][0].String() {
			t.Fatalf("row %d differs for the same seed", i)
		}
	}
}
