package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/jdeng/gonspire/pkg/nspire"
)

func main() {
	var addr = flag.String("addr", "127.0.0.1:5050", "Calculator bridge address")
	var outputFile = flag.String("output", "screenshot.png", "Output PNG file")
	flag.Parse()

	t, err := nspire.DialTCP(*addr)
	if err != nil {
		log.Fatalf("Failed to reach bridge: %v", err)
	}

	img, err := nspire.Screenshot(t)
	if err != nil {
		log.Fatalf("Failed to capture screenshot: %v", err)
	}
	if !img.Complete() {
		fmt.Printf("Warning: device truncated the stream (%d of %d bytes decoded)\n",
			img.Decoded(), len(img.Data()))
	}

	stdImg, err := img.StdImage()
	if err != nil {
		log.Fatalf("Failed to convert framebuffer: %v", err)
	}

	file, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, stdImg); err != nil {
		log.Fatalf("Failed to encode PNG: %v", err)
	}

	fmt.Printf("Saved %s\n", *outputFile)
	fmt.Printf("Image size: %dx%d pixels, %d bpp\n", img.Width(), img.Height(), img.BPP())
}
