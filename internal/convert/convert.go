// Package convert performs the per-file conversion: load a .npy array,
// swap the first and third channel planes, encode a PNG next to the source,
// and remove the source.
package convert

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/FZU-N/pylle-toolkit/internal/npy"
)

// Status discriminates the per-file outcome. Every failure mode is a value
// here rather than a panic or a bare error, so the caller decides logging
// and continuation.
type Status int

const (
	StatusConverted    Status = iota // PNG written; source removed (unless kept).
	StatusRejected                   // Not an HxWx3 array; source untouched, no output.
	StatusLoadFailed                 // Unreadable or malformed source; nothing written.
	StatusWriteFailed                // PNG encode/write failed; partial output removed, source kept.
	StatusDeleteFailed               // PNG written but the source could not be removed; both files remain.
)

// Outcome is the result of converting one file.
type Outcome struct {
	Path       string
	OutputPath string // Set once a write was attempted.
	Shape      []int  // Set once the source was loaded.
	DType      string
	Status     Status
	Err        error // Underlying cause for the *Failed statuses.
}

// Failed reports whether the outcome is one of the failure statuses.
// A rejection is not a failure: the source is intentionally left alone.
func (o Outcome) Failed() bool {
	switch o.Status {
	case StatusLoadFailed, StatusWriteFailed, StatusDeleteFailed:
		return true
	}
	return false
}

// OutputPath returns path with its extension replaced by ".png". The output
// always sits next to the source.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

// ConvertAndReplace converts the .npy file at path into a sibling .png and
// deletes the source. The source is deleted only after a successful write,
// and kept when keepSource is set. Rejected and failed sources are never
// deleted. The returned Outcome carries everything the caller needs to log.
func ConvertAndReplace(path string, keepSource bool) Outcome {
	out := Outcome{Path: path}

	arr, err := npy.Load(path)
	if err != nil {
		out.Status = StatusLoadFailed
		out.Err = err
		return out
	}
	out.Shape = arr.Shape
	out.DType = arr.DType

	if !arr.IsRGB() {
		out.Status = StatusRejected
		return out
	}

	out.OutputPath = OutputPath(path)
	if err := writePNG(out.OutputPath, rasterize(arr)); err != nil {
		out.Status = StatusWriteFailed
		out.Err = err
		return out
	}

	if !keepSource {
		if err := os.Remove(path); err != nil {
			out.Status = StatusDeleteFailed
			out.Err = err
			return out
		}
	}

	out.Status = StatusConverted
	return out
}

// rasterize builds the output image from an HxWx3 array, reordering the last
// dimension from [0,1,2] to [2,1,0]. The swap is unconditional: sources are
// assumed to store channels in the order opposite to the raster's. Datasets
// already stored in raster order will come out with the first and third
// planes exchanged.
func rasterize(a *npy.Array) *image.NRGBA {
	h, w := a.Shape[0], a.Shape[1]
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 3
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = a.Data[src+2]
			img.Pix[dst+1] = a.Data[src+1]
			img.Pix[dst+2] = a.Data[src+0]
			img.Pix[dst+3] = 0xff
		}
	}
	return img
}

// writePNG encodes img to path, overwriting any existing file. A partial
// output left by a failed encode or close is removed so a failure never
// leaves a half-written .png behind.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
