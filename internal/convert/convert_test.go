package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// writeNPY writes a minimal C-order NPY v1.0 file with uint8 payload.
func writeNPY(t *testing.T, path string, shape []int, raw []byte) {
	t.Helper()
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	tuple := "(" + strings.Join(parts, ", ") + ")"
	if len(shape) == 1 {
		tuple = fmt.Sprintf("(%d,)", shape[0])
	}
	hdr := fmt.Sprintf("{'descr': '|u1', 'fortran_order': False, 'shape': %s, }", tuple)
	pad := 16 - (10+len(hdr)+1)%16
	if pad == 16 {
		pad = 0
	}
	hdr += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(len(hdr)))
	buf.WriteString(hdr)
	buf.Write(raw)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func pixelAt(t *testing.T, path string, x, y int) color.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestConvertAndReplace_SwapsChannels(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.npy")
	writeNPY(t, src, []int{2, 2, 3}, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	res := ConvertAndReplace(src, false)
	if res.Status != StatusConverted {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}

	out := filepath.Join(dir, "a.png")
	if res.OutputPath != out {
		t.Errorf("output path = %q, want %q", res.OutputPath, out)
	}
	if exists(src) {
		t.Error("source should be deleted after a successful conversion")
	}

	// The first and third channel planes must be exchanged, pixel for pixel.
	tests := []struct {
		x, y    int
		r, g, b uint8
	}{
		{0, 0, 3, 2, 1},
		{1, 0, 6, 5, 4},
		{0, 1, 9, 8, 7},
		{1, 1, 12, 11, 10},
	}
	for _, tt := range tests {
		px := pixelAt(t, out, tt.x, tt.y)
		if px.R != tt.r || px.G != tt.g || px.B != tt.b {
			t.Errorf("pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
				tt.x, tt.y, px.R, px.G, px.B, tt.r, tt.g, tt.b)
		}
	}
}

func TestConvertAndReplace_KeepSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.npy")
	writeNPY(t, src, []int{1, 1, 3}, []byte{10, 20, 30})

	res := ConvertAndReplace(src, true)
	if res.Status != StatusConverted {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if !exists(src) {
		t.Error("source should survive with keepSource set")
	}
	if !exists(filepath.Join(dir, "a.png")) {
		t.Error("output should be written with keepSource set")
	}
}

func TestConvertAndReplace_RejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		n     int
	}{
		{"grayscale", []int{2, 2}, 4},
		{"four channels", []int{2, 2, 4}, 16},
		{"extra dimension", []int{2, 2, 3, 1}, 12},
		{"flat", []int{12}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "b.npy")
			writeNPY(t, src, tt.shape, make([]byte, tt.n))

			res := ConvertAndReplace(src, false)
			if res.Status != StatusRejected {
				t.Fatalf("status = %v, want StatusRejected", res.Status)
			}
			if !exists(src) {
				t.Error("rejected source must be left in place")
			}
			if exists(filepath.Join(dir, "b.png")) {
				t.Error("no output may be written for a rejected source")
			}
		})
	}
}

func TestConvertAndReplace_CorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "c.npy")
	if err := os.WriteFile(src, []byte("not an array"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := ConvertAndReplace(src, false)
	if res.Status != StatusLoadFailed {
		t.Fatalf("status = %v, want StatusLoadFailed", res.Status)
	}
	if res.Err == nil {
		t.Error("load failure must carry the underlying error")
	}
	if !exists(src) {
		t.Error("corrupt source must not be deleted")
	}
	if exists(filepath.Join(dir, "c.png")) {
		t.Error("no output may be written for a corrupt source")
	}
}

func TestConvertAndReplace_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.npy")
	out := filepath.Join(dir, "a.png")
	writeNPY(t, src, []int{1, 1, 3}, []byte{1, 2, 3})
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := ConvertAndReplace(src, false)
	if res.Status != StatusConverted {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	px := pixelAt(t, out, 0, 0)
	if px.R != 3 || px.G != 2 || px.B != 1 {
		t.Errorf("overwritten output pixel = (%d,%d,%d), want (3,2,1)", px.R, px.G, px.B)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "/data/a.npy", "/data/a.png"},
		{"uppercase extension", "/data/A.NPY", "/data/A.png"},
		{"nested", "/data/sub/dir/img.npy", "/data/sub/dir/img.png"},
		{"dots in name", "/data/a.b.npy", "/data/a.b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.in); got != tt.want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutcome_Failed(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusConverted, false},
		{StatusRejected, false},
		{StatusLoadFailed, true},
		{StatusWriteFailed, true},
		{StatusDeleteFailed, true},
	}
	for _, tt := range tests {
		o := Outcome{Status: tt.status}
		if got := o.Failed(); got != tt.want {
			t.Errorf("Failed() with status %v = %v, want %v", tt.status, got, tt.want)
		}
	}
}
