package pdfutils

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
)

// Tesseract runs the tesseract binary to read text from scanned sheets
// that carry no text layer.
type Tesseract struct {
	Path    string `yaml:"path"`
	Lang    string `yaml:"lang"`
	DataDir string `yaml:"data_dir"`
}

// Available reports whether the binary can be found.
func (t Tesseract) Available() bool {
	if t.Path == "tesseract" {
		_, err := exec.LookPath("tesseract")
		return err == nil
	}

	_, err := os.Stat(t.Path)

	return err == nil
}

// HasLangs reports whether every "+" separated language is installed.
func (t Tesseract) HasLangs() bool {
	out, err := exec.Command(t.Path, "--list-langs").CombinedOutput()
	if err != nil {
		return false
	}

	installed := map[string]bool{}
	for _, line := range strings.Split(string(out), "\n") {
		installed[strings.Trim(line, "\n\r ")] = true
	}

	for _, lang := range strings.Split(t.Lang, "+") {
		if !installed[lang] {
			return false
		}
	}

	return true
}

// Read returns the recognized text of img with whitespace condensed.
func (t Tesseract) Read(img image.Image) (string, error) {
	tessArgs := []string{"stdin", "stdout", "--dpi", "300", "-l", t.Lang}

	if t.DataDir != "" {
		tessArgs = append(tessArgs, "--tessdata-dir", t.DataDir)
	}

	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return "", err
	}

	var out bytes.Buffer
	cmd := exec.Command(t.Path, tessArgs...)
	cmd.Stdin = &in
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}

	return CondenseSpaces(out.String()), nil
}

// ScaleNotes reads scale notes from the title block of a page raster.
func (t Tesseract) ScaleNotes(page image.Image) ([]ScaleNote, error) {
	block, err := TitleBlock(page)
	if err != nil {
		return nil, err
	}

	text, err := t.Read(block)
	if err != nil {
		return nil, err
	}

	return FindScaleNotes(text), nil
}
