package main

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawFootnote draws a small caption onto the provided image near the bottom-right corner.
func drawFootnote(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 4
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Max.X - tw - 8
	if x < b.Min.X+pad {
		x = b.Min.X + pad
	}
	y := b.Max.Y - 6
	// light backing so the text stays readable over tick labels
	bg := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 220})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
