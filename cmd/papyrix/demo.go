package main

import (
	"io"

	"github.com/papyrix/papyrix/bmp"
	"github.com/papyrix/papyrix/gfx"
)

const (
	demoWidth  = 480
	demoHeight = 800
)

// renderDemo draws a sample screen through the in-memory panel and
// writes it out as a 1-bit BMP, portrait orientation.
func renderDemo(w io.Writer) error {
	panel := gfx.NewMemoryPanel(demoHeight, demoWidth)
	r := gfx.New(panel)

	r.DrawThickRect(10, 10, demoWidth-20, demoHeight-20, 3, true)
	r.DrawRoundedRect(40, 40, demoWidth-80, 120, 4, 20, true)
	r.FillRect(60, 70, demoWidth-120, 60, true)

	// Gray ramp, one bar per Bayer level.
	barWidth := (demoWidth - 80) / 16
	for level := 0; level < 16; level++ {
		r.FillRectGrey(40+level*barWidth, 220, barWidth, 100, level)
	}

	r.DrawArc(60, 240, 440, -1, -1, 8, true)
	r.DrawArc(60, 240, 440, 1, -1, 8, true)
	r.FillArc(50, 240, 560, -1, 1, gfx.ArcBlack, gfx.ArcUnset)
	r.FillArc(50, 240, 560, 1, 1, gfx.ArcBlack, gfx.ArcUnset)

	for i := 0; i < 6; i++ {
		r.DrawThickLine(40, 640+i*20, demoWidth-40, 640+i*20, 4, true)
	}

	return dumpFramebuffer(w, r)
}

// dumpFramebuffer reads the framebuffer back through the renderer's
// logical coordinates and encodes it as a 1-bit BMP.
func dumpFramebuffer(w io.Writer, r *gfx.Renderer) error {
	enc, err := bmp.NewWriter(w, r.ScreenWidth(), r.ScreenHeight(), 1)
	if err != nil {
		return err
	}

	for y := 0; y < r.ScreenHeight(); y++ {
		for x := 0; x < r.ScreenWidth(); x++ {
			if r.PixelAt(x, y) {
				enc.SetPixel(x, 0)
			} else {
				enc.SetPixel(x, 1)
			}
		}
		if err := enc.WriteRow(); err != nil {
			return err
		}
	}
	return nil
}
