package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ErrPreviewTooLarge is returned when the drawing would exceed maxPreviewPixels.
var ErrPreviewTooLarge = errors.New("preview image too large")

const (
	previewMargin    = 10
	captionHeight    = 34
	maxPreviewPixels = 4096 * 4096
)

// Preview rasterises a boundary, and optionally a layout, at one image pixel
// per layout pixel: grid dots every 0.2 m, grid lines every metre, stalls in
// blue and boundary edges in their type's color.
func Preview(b *model.Boundary, dims model.Dimensions, layout *model.Layout) (*image.RGBA, error) {
	pts := b.Points()
	if layout != nil {
		for _, p := range layout.Placements {
			pts = append(pts, model.StallOutline(p.Position, dims, layout.Orientation)...)
		}
	}
	bounds := model.OutlineBounds(pts)
	cv := canvas{ox: math.Floor(bounds.X), oy: math.Floor(bounds.Y)}

	w := int(math.Ceil(bounds.MaxX()-cv.ox)) + 2*previewMargin
	h := int(math.Ceil(bounds.MaxY()-cv.oy)) + 2*previewMargin + captionHeight
	if w*h > maxPreviewPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrPreviewTooLarge, w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	cv.drawGrid(img, h-captionHeight)

	if layout != nil {
		var segs []geometry.Segment
		for _, p := range layout.Placements {
			outline := model.StallOutline(p.Position, dims, layout.Orientation)
			for i := range outline {
				segs = append(segs, geometry.Segment{A: outline[i], B: outline[(i+1)%len(outline)]})
			}
		}
		cv.stroke(img, segs, 1, stallColor)
	}

	byType := make(map[model.EdgeType][]geometry.Segment)
	for _, s := range b.Segments() {
		byType[s.Type] = append(byType[s.Type], s.Segment)
	}
	for _, t := range []model.EdgeType{model.EdgeBorder, model.EdgeEntrance, model.EdgeExit, model.EdgeEntranceExit, model.EdgeCollision} {
		cv.stroke(img, byType[t], 2, edgeColor(t))
	}

	y := h - captionHeight + 14
	if layout != nil {
		drawText(img, previewMargin, y, Summary(*layout))
		y += 14
	}
	drawText(img, previewMargin, y, "1 grid cell = 1 m")
	return img, nil
}

// WritePNG encodes the preview of a planned project as PNG.
func WritePNG(w io.Writer, proj model.Project) error {
	img, err := Preview(&proj.Boundary, proj.Dimensions, proj.Result)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

func rgba(c rgb) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// canvas maps layout pixels to image pixels. The top-left of the drawing
// bounds lands on the margin corner.
type canvas struct {
	ox, oy float64
}

func (cv canvas) point(p geometry.Point) (float32, float32) {
	return float32(p.X - cv.ox + previewMargin), float32(p.Y - cv.oy + previewMargin)
}

// drawGrid paints the drawing grid above the caption strip, aligned to the
// layout origin rather than to the image corner.
func (cv canvas) drawGrid(img *image.RGBA, height int) {
	dot := color.RGBA{R: 190, G: 190, B: 190, A: 255}
	line := rgba(gridColor)
	w := img.Bounds().Dx()

	for y := previewMargin; y < height; y++ {
		gy := mod(y-previewMargin+int(cv.oy), int(geometry.PixelsPerMetre))
		for x := previewMargin; x < w; x++ {
			gx := mod(x-previewMargin+int(cv.ox), int(geometry.PixelsPerMetre))
			switch {
			case gx%int(geometry.PixelsPerMetre) == 0 || gy%int(geometry.PixelsPerMetre) == 0:
				img.SetRGBA(x, y, line)
			case gx%int(geometry.GridSize) == 0 && gy%int(geometry.GridSize) == 0:
				img.SetRGBA(x, y, dot)
			}
		}
	}
}

// stroke draws every segment as a filled quad of the given width in one pass.
func (cv canvas) stroke(img *image.RGBA, segs []geometry.Segment, width float64, c rgb) {
	if len(segs) == 0 {
		return
	}
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := width / 2
	drawn := false

	for _, s := range segs {
		l := s.Length()
		if l == 0 {
			continue
		}
		nx := -(s.B.Y - s.A.Y) / l * half
		ny := (s.B.X - s.A.X) / l * half

		ax, ay := cv.point(s.A)
		bx, by := cv.point(s.B)
		z.MoveTo(ax+float32(nx), ay+float32(ny))
		z.LineTo(bx+float32(nx), by+float32(ny))
		z.LineTo(bx-float32(nx), by-float32(ny))
		z.LineTo(ax-float32(nx), ay-float32(ny))
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(img, b, image.NewUniform(rgba(c)), image.Point{})
	}
}

// mod is the non-negative remainder of a / n.
func mod(a, n int) int {
	return ((a % n) + n) % n
}

func drawText(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
