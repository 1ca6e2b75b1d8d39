package render

import "image"

// Resample scales src to dstW x dstH by nearest-neighbor point
// sampling. Each destination coordinate maps to source index
// x*(srcW-1)/(dstW-1) (0 when the destination axis has a single pixel),
// clamped to the source bounds. No blending takes place, so identical
// inputs always produce bit-identical output.
func Resample(src *image.NRGBA, dstW, dstH int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))

	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	if srcW <= 0 || srcH <= 0 {
		return dst
	}

	for y := 0; y < dstH; y++ {
		sy := 0
		if dstH > 1 {
			sy = y * (srcH - 1) / (dstH - 1)
			if sy >= srcH {
				sy = srcH - 1
			}
		}
		for x := 0; x < dstW; x++ {
			sx := 0
			if dstW > 1 {
				sx = x * (srcW - 1) / (dstW - 1)
				if sx >= srcW {
					sx = srcW - 1
				}
			}
			si := src.PixOffset(src.Rect.Min.X+sx, src.Rect.Min.Y+sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// TransparentFrame is the stand-in for an absent or undecodable source:
// a fully transparent black buffer of the requested size, never a
// resample over uninitialized memory.
func TransparentFrame(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}
