/*
Package convert turns JPEG photographs into the indexed BMP files the
Papyrix renderer blits to the screen.

The conversion streams: the decoder is pulled one MCU row at a time,
each row is tone-mapped, optionally area-averaged down to the display
size, quantized by the configured ditherer and written straight to the
output. Working memory stays at one MCU row plus one output row no
matter how large the source image is, which is what lets the same code
run on the device. Failure is all or nothing: a configuration error
produces no output at all, and a mid-stream decode error invalidates
whatever was already written.
*/
package convert

import (
	"errors"
	"fmt"
	"io"

	"github.com/papyrix/papyrix/bmp"
)

// Safety caps bounding worst-case memory on the device.
const (
	maxImageWidth  = 2048
	maxImageHeight = 3072
	maxMCURowBytes = 65536
)

var (
	errDepth    = errors.New("convert: unsupported bit depth")
	errTooLarge = errors.New("convert: image exceeds size limits")
	errMCURow   = errors.New("convert: mcu row exceeds size limit")
)

// Options configures a conversion. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// BitsPerPixel selects the output depth: 1, 2 or 8. Depths other
	// than 8 are quantized through Dither; 8 writes the raw tone-mapped
	// value.
	BitsPerPixel int

	// MaxWidth and MaxHeight bound the output. A source exceeding the
	// box is scaled down uniformly, preserving aspect ratio, before
	// dithering. Zero disables scaling.
	MaxWidth  int
	MaxHeight int

	Dither Dither

	// Contrast is a percentage around the 128 midpoint; 0 disables the
	// stage. Brightness is an additive offset. Gamma toggles midtone
	// brightening.
	Contrast   int
	Brightness int
	Gamma      bool

	// NewDecoder overrides the block decoder, mainly for tests. Nil
	// selects the built-in JPEG decoder.
	NewDecoder func(io.Reader) (MCUDecoder, error)
}

// DefaultOptions returns the configuration the device uses for cover
// art.
func DefaultOptions() Options {
	return Options{
		BitsPerPixel: 2,
		MaxWidth:     480,
		MaxHeight:    800,
		Dither:       DitherAtkinson,
		Contrast:     115,
		Brightness:   10,
		Gamma:        true,
	}
}

// ToBMP converts the JPEG stream src into an indexed BMP written to
// dst. On error nothing useful has been written; the caller discards
// any partial output.
func ToBMP(src io.Reader, dst io.Writer, opts Options) error {
	if opts.BitsPerPixel != 1 && opts.BitsPerPixel != 2 && opts.BitsPerPixel != 8 {
		return errDepth
	}

	newDecoder := opts.NewDecoder
	if newDecoder == nil {
		newDecoder = newFrameDecoder
	}
	dec, err := newDecoder(newByteSource(src))
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	info := dec.Info()
	if info.Width > maxImageWidth || info.Height > maxImageHeight {
		return errTooLarge
	}
	mcuRowPixels := info.Width * info.MCUHeight
	if mcuRowPixels > maxMCURowBytes {
		return errMCURow
	}

	outWidth, outHeight := info.Width, info.Height
	scaleX := uint32(1 << 16)
	scaleY := uint32(1 << 16)
	scaled := false
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 &&
		(info.Width > opts.MaxWidth || info.Height > opts.MaxHeight) {
		fitWidth := float64(opts.MaxWidth) / float64(info.Width)
		fitHeight := float64(opts.MaxHeight) / float64(info.Height)
		scale := fitWidth
		if fitHeight < scale {
			scale = fitHeight
		}
		outWidth = int(float64(info.Width) * scale)
		outHeight = int(float64(info.Height) * scale)
		if outWidth < 1 {
			outWidth = 1
		}
		if outHeight < 1 {
			outHeight = 1
		}
		// Source pixels per output pixel, 16.16 fixed point. X and Y
		// may differ slightly from integer rounding; that is accepted.
		scaleX = uint32(info.Width<<16) / uint32(outWidth)
		scaleY = uint32(info.Height<<16) / uint32(outHeight)
		scaled = true
	}

	enc, err := bmp.NewWriter(dst, outWidth, outHeight, opts.BitsPerPixel)
	if err != nil {
		return err
	}

	levels := 1 << uint(opts.BitsPerPixel)
	p := &pipeline{
		enc:    enc,
		width:  outWidth,
		tone:   toneMap{contrast: opts.Contrast, brightness: opts.Brightness, gamma: opts.Gamma},
		dither: opts.Dither,
		levels: levels,
	}
	if opts.BitsPerPixel != 8 {
		switch opts.Dither {
		case DitherAtkinson:
			p.atk = newAtkinson(outWidth, levels)
		case DitherFloydSteinberg:
			p.fs = newFloydSteinberg(outWidth, levels)
		}
	} else {
		p.raw = true
	}

	mcuRow := make([]byte, mcuRowPixels)

	var rowAccum []uint32
	var rowSamples []uint16
	currentOutY := 0
	var nextBoundary uint32
	if scaled {
		rowAccum = make([]uint32, outWidth)
		rowSamples = make([]uint16, outWidth)
		nextBoundary = scaleY
	}

	var mcu MCU
	for mcuY := 0; mcuY < info.MCUsPerCol; mcuY++ {
		for i := range mcuRow {
			mcuRow[i] = 0
		}

		for mcuX := 0; mcuX < info.MCUsPerRow; mcuX++ {
			if err := dec.DecodeMCU(&mcu); err != nil {
				return fmt.Errorf("convert: mcu (%d, %d): %w", mcuX, mcuY, err)
			}
			unpackMCU(mcuRow, &mcu, info, mcuX)
		}

		startRow := mcuY * info.MCUHeight
		for y := startRow; y < startRow+info.MCUHeight && y < info.Height; y++ {
			srcRow := mcuRow[(y-startRow)*info.Width : (y-startRow)*info.Width+info.Width]

			if !scaled {
				err := p.writeRow(y, func(x int) int { return int(srcRow[x]) })
				if err != nil {
					return err
				}
				continue
			}

			// Each output column accumulates every source column whose
			// fixed-point range maps to it.
			for outX := 0; outX < outWidth; outX++ {
				srcXStart := int(uint32(outX) * scaleX >> 16)
				srcXEnd := int(uint32(outX+1) * scaleX >> 16)

				sum, count := 0, 0
				for srcX := srcXStart; srcX < srcXEnd && srcX < info.Width; srcX++ {
					sum += int(srcRow[srcX])
					count++
				}
				if count == 0 && srcXStart < info.Width {
					sum = int(srcRow[srcXStart])
					count = 1
				}

				rowAccum[outX] += uint32(sum)
				rowSamples[outX] += uint16(count)
			}

			// Emit once the source Y crosses the next output row
			// boundary.
			if uint32(y+1)<<16 >= nextBoundary && currentOutY < outHeight {
				err := p.writeRow(currentOutY, func(x int) int {
					if rowSamples[x] == 0 {
						return 0
					}
					return int(rowAccum[x] / uint32(rowSamples[x]))
				})
				if err != nil {
					return err
				}
				currentOutY++

				for i := range rowAccum {
					rowAccum[i] = 0
					rowSamples[i] = 0
				}
				nextBoundary = uint32(currentOutY+1) * scaleY
			}
		}
	}

	return nil
}

// unpackMCU copies one MCU's luma into the scratch row spanning the
// full image width. The decoder stores MCU data as consecutive 8x8
// blocks, so the sample offset is recovered from the block index and
// the position within the block.
func unpackMCU(mcuRow []byte, mcu *MCU, info Info, mcuX int) {
	blocksPerRow := info.MCUWidth / 8
	for blockY := 0; blockY < info.MCUHeight; blockY++ {
		for blockX := 0; blockX < info.MCUWidth; blockX++ {
			pixelX := mcuX*info.MCUWidth + blockX
			if pixelX >= info.Width {
				continue
			}

			blockIndex := (blockY/8)*blocksPerRow + blockX/8
			offset := blockIndex*64 + (blockY%8)*8 + blockX%8

			var gray byte
			if info.Components == 1 {
				gray = mcu.R[offset]
			} else {
				gray = byte((int(mcu.R[offset])*25 + int(mcu.G[offset])*50 + int(mcu.B[offset])*25) / 100)
			}

			mcuRow[blockY*info.Width+pixelX] = gray
		}
	}
}

// pipeline carries the per-conversion tone map and quantizer state.
type pipeline struct {
	enc    *bmp.Writer
	width  int
	tone   toneMap
	dither Dither
	levels int
	raw    bool
	atk    *atkinson
	fs     *floydSteinberg
}

// writeRow tone-maps and quantizes one output row. y is the output row
// index, used by the noise quantizer's hash.
func (p *pipeline) writeRow(y int, gray func(x int) int) error {
	for x := 0; x < p.width; x++ {
		g := p.tone.apply(gray(x))

		if p.raw {
			p.enc.SetPixel(x, uint8(g))
			continue
		}

		var level uint8
		switch {
		case p.atk != nil:
			level = p.atk.process(g, x)
		case p.fs != nil:
			level = p.fs.process(g, x)
		case p.dither == DitherNoise:
			level = quantizeNoise(g, x, y, p.levels)
		default:
			level = quantizeSimple(g, p.levels)
		}
		p.enc.SetPixel(x, level)
	}

	if p.atk != nil {
		p.atk.nextRow()
	}
	if p.fs != nil {
		p.fs.nextRow()
	}
	return p.enc.WriteRow()
}
