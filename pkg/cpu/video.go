package cpu

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// GetFramebufferRGBA renders the screen memory map into a 512×256 RGBA8888
// byte slice. Each row is 32 words; bit 0 of a word is its leftmost pixel
// and a set bit is black.
func (c *CPU) GetFramebufferRGBA() []byte {
	pixels := make([]byte, ScreenWidth*ScreenHeight*4)

	for row := 0; row < ScreenHeight; row++ {
		for col := 0; col < wordsPerRow; col++ {
			word := c.RAM[ScreenBase+row*wordsPerRow+col]
			for bit := 0; bit < 16; bit++ {
				var shade byte = 0xFF
				if word&(1<<bit) != 0 {
					shade = 0x00
				}
				i := (row*ScreenWidth + col*16 + bit) * 4
				pixels[i+0] = shade
				pixels[i+1] = shade
				pixels[i+2] = shade
				pixels[i+3] = 0xFF
			}
		}
	}

	return pixels
}

// GetFramebufferImage returns the screen as an *image.RGBA.
func (c *CPU) GetFramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    c.GetFramebufferRGBA(),
		Stride: ScreenWidth * 4,
		Rect:   image.Rect(0, 0, ScreenWidth, ScreenHeight),
	}
}

// Screenshot returns the screen enlarged by an integer factor using
// nearest-neighbour sampling so pixels stay sharp.
func (c *CPU) Screenshot(scale int) *image.RGBA {
	src := c.GetFramebufferImage()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, ScreenWidth*scale, ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveScreenshot encodes the screen as a PNG and writes it to filename.
func (c *CPU) SaveScreenshot(filename string, scale int) error {
	img := c.Screenshot(scale)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
