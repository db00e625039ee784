// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"github.com/mlnoga/rasterwarp/internal/geotransform"
	"github.com/mlnoga/rasterwarp/internal/warp"
)

const version = "0.1.0"

var in = flag.String("in", "", "warp the image in `file` (BMP)")
var out = flag.String("out", "out.png", "save warped output to `file` (PNG)")
var log = flag.String("log", "", "also write log output to `file`")
var mode = flag.String("mode", "Bilinear", "resampling mode: Nearest, Bilinear or Cubic")
var affine = flag.String("affine", "0,1,0,0,0,1", "src-to-dst affine as a,b,c,d,e,f: dst_x=a+b*x+c*y, dst_y=d+e*x+f*y")
var dstWidth = flag.Int64("dstWidth", 0, "destination width, 0=same as source")
var dstHeight = flag.Int64("dstHeight", 0, "destination height, 0=same as source")
var goroutines = flag.Int64("goroutines", int64(runtime.NumCPU()), "max goroutines for row-parallel warping")

func main() {
	debug.SetGCPercent(10)
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `rasterwarp %s
Warp a BMP image onto a PNG output through an affine transform.

Usage: %s [-flag value] -in input.bmp -out output.png

Flags:
`, version, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *log != "" {
		if err := warp.LogAlsoToFile(*log); err != nil {
			fmt.Fprintf(os.Stderr, "unable to open logfile %q: %v\n", *log, err)
			os.Exit(1)
		}
	}
	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		warp.LogPrintf("error: %v\n", err)
		os.Exit(1)
	}
	warp.LogPrintf("done in %v\n", time.Since(start))
}

func run() error {
	resampleMode, err := warp.ParseResampleMode(*mode)
	if err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	src, err := bmp.Decode(f)
	if err != nil {
		return err
	}

	fwd, err := parseAffine(*affine)
	if err != nil {
		return err
	}
	transformer, err := geotransform.NewTransformer(fwd)
	if err != nil {
		return err
	}

	srcWidth, srcHeight := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := int(*dstWidth), int(*dstHeight)
	if dw == 0 {
		dw = srcWidth
	}
	if dh == 0 {
		dh = srcHeight
	}

	srcBands, bandCount := toBands(src)
	dstBands := make([][]byte, bandCount)
	for i := range dstBands {
		dstBands[i] = make([]byte, dw*dh)
	}

	diag := warp.NewDiagnostics()
	chunkRows := diag.SuggestedChunkRows(dw, bandCount, warp.Byte.ElementSize(), 0.25)
	warp.LogPrintf("host: %dMB memory, %d CPUs, suggested chunk height %d rows for a %dx%d destination\n",
		diag.TotalMemoryMB, diag.NumCPU, chunkRows, dw, dh)

	k := &warp.Kernel{
		ResampleMode:  resampleMode,
		ElementFormat: warp.Byte,
		BandCount:     bandCount,
		SrcWidth:      srcWidth, SrcHeight: srcHeight,
		SrcBands: srcBands,
		DstWidth: dw, DstHeight: dh,
		DstBands:      dstBands,
		Transformer:   transformer.TransformFunc,
		MaxGoroutines: int(*goroutines),
		Progress: func(fraction float64, label string) bool {
			warp.LogPrintf("warp progress: %.1f%%\n", fraction*100)
			return true
		},
	}
	if err := k.PerformWarp(); err != nil {
		return err
	}

	dst := fromBands(dstBands, dw, dh)
	outFile, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return png.Encode(outFile, dst)
}

// toBands deinterleaves an image into four Byte-format planar bands
// (R, G, B, A), matching the kernel's band-per-buffer convention.
func toBands(img image.Image) (bands [][]byte, bandCount int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := make([]byte, w*h)
	g := make([]byte, w*h)
	bl := make([]byte, w*h)
	a := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rr, gg, bb, aa := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := x + y*w
			r[i], g[i], bl[i], a[i] = byte(rr>>8), byte(gg>>8), byte(bb>>8), byte(aa>>8)
		}
	}
	return [][]byte{r, g, bl, a}, 4
}

func fromBands(bands [][]byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := x + y*w
			o := img.PixOffset(x, y)
			img.Pix[o+0] = bands[0][i]
			img.Pix[o+1] = bands[1][i]
			img.Pix[o+2] = bands[2][i]
			img.Pix[o+3] = bands[3][i]
		}
	}
	return img
}

func parseAffine(s string) (geotransform.Affine, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return geotransform.Affine{}, fmt.Errorf("affine must have 6 comma-separated values, got %d", len(parts))
	}
	var v [6]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geotransform.Affine{}, fmt.Errorf("affine value %d: %w", i, err)
		}
		v[i] = f
	}
	return geotransform.Affine{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}, nil
}
