package pdfutils

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func CropImage(img image.Image, crop image.Rectangle) (image.Image, error) {
	simg, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image does not support cropping")
	}

	return simg.SubImage(crop), nil
}

// TitleBlock returns the lower right quarter of a page raster, where
// drawing sheets usually print their scale.
func TitleBlock(img image.Image) (image.Image, error) {
	b := img.Bounds()
	crop := image.Rect(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2, b.Max.X, b.Max.Y)

	return CropImage(img, crop)
}

// PageImagePath names the image written for a page.
func PageImagePath(dir, baseName string, pageIndex int, format string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.%s", baseName, pageIndex+1, format))
}

func WriteImage(img image.Image, name string, format string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(name), os.ModePerm); err != nil {
		return err
	}

	if format == "jpg" {
		return writeJPGImage(img, name, quality)
	}

	return writePNGImage(img, name)
}

func writeJPGImage(img image.Image, name string, quality int) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}

	defer fd.Close()
	return jpeg.Encode(fd, img, &jpeg.Options{Quality: quality})
}

func writePNGImage(img image.Image, name string) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}

	defer fd.Close()
	return png.Encode(fd, img)
}
