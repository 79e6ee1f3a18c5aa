// Command generate_demo writes a sample level bundle and can import it into a
// database.
// Usage: go run cmd/generate_demo/main.go [-out demo/levels.zip] [-db demo/demo.db]
package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/tomfrance/sacha/internal/archive"
	"github.com/tomfrance/sacha/internal/database"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/importers"
)

const (
	defaultBundlePath = "./demo/levels.zip"
	sampleRate        = 8000
)

type demoWord struct {
	Name  string
	Color color.RGBA
	Tone  float64
}

type demoLevel struct {
	Directory  string
	Background color.RGBA
	Words      []demoWord
}

func main() {
	out := flag.String("out", defaultBundlePath, "path of the ZIP bundle to write")
	dbPath := flag.String("db", "", "import the bundle into this database (recreated) when set")
	flag.Parse()

	entries, err := buildEntries(demoLevels())
	if err != nil {
		log.Fatalf("Failed to build demo media: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create bundle: %v", err)
	}
	if err := archive.Write(f, entries); err != nil {
		f.Close()
		log.Fatalf("Failed to write bundle: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close bundle: %v", err)
	}
	log.Printf("Wrote demo bundle with %d entries to %s", len(entries), *out)

	if *dbPath == "" {
		return
	}

	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	importer := importers.NewImporter(levels.NewRepository(db.DB), importers.Options{})
	result, err := importer.ImportFile(context.Background(), *out, func(ev importers.Event) {
		log.Printf("%s", ev)
	})
	if err != nil {
		log.Fatalf("Failed to import demo bundle: %v", err)
	}
	log.Printf("Demo database ready at %s: %s", *dbPath, result.Summary())
}

func demoLevels() []demoLevel {
	return []demoLevel{
		{
			Directory:  "animals",
			Background: color.RGBA{R: 0x9c, G: 0xd6, B: 0x8f, A: 0xff},
			Words: []demoWord{
				{"cat", color.RGBA{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff}, 440},
				{"dog", color.RGBA{R: 0x8d, G: 0x6e, B: 0x63, A: 0xff}, 494},
				{"cow", color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}, 523},
			},
		},
		{
			Directory:  "colors",
			Background: color.RGBA{R: 0xff, G: 0xf3, B: 0xc4, A: 0xff},
			Words: []demoWord{
				{"red", color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}, 587},
				{"blue", color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}, 659},
				{"green", color.RGBA{R: 0x43, G: 0xa0, B: 0x47, A: 0xff}, 698},
			},
		},
		{
			Directory:  "fruit",
			Background: color.RGBA{R: 0xff, G: 0xe0, B: 0xb2, A: 0xff},
			Words: []demoWord{
				{"apple", color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}, 784},
				{"banana", color.RGBA{R: 0xfd, G: 0xd8, B: 0x35, A: 0xff}, 880},
			},
		},
	}
}

func buildEntries(demo []demoLevel) ([]archive.Entry, error) {
	var entries []archive.Entry
	for _, level := range demo {
		bg, err := solidPNG(level.Background, 320, 200)
		if err != nil {
			return nil, err
		}
		entries = append(entries,
			archive.Entry{Name: level.Directory + "/"},
			archive.Entry{Name: level.Directory + "/background.png", Data: bg},
		)

		for _, w := range level.Words {
			img, err := solidPNG(w.Color, 128, 128)
			if err != nil {
				return nil, err
			}
			entries = append(entries,
				archive.Entry{Name: level.Directory + "/" + w.Name + ".png", Data: img},
				archive.Entry{Name: level.Directory + "/" + w.Name + ".wav", Data: toneWAV(w.Tone, 0.6)},
			)
		}
	}
	return entries, nil
}

func solidPNG(c color.RGBA, width, height int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toneWAV renders a mono 8-bit PCM sine tone.
func toneWAV(freq, seconds float64) []byte {
	samples := int(seconds * sampleRate)
	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+samples))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))         // fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))          // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))          // channels
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)) // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(1))          // block align
	binary.Write(&buf, binary.LittleEndian, uint16(8))          // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(samples))

	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		buf.WriteByte(byte(128 + 100*v))
	}
	return buf.Bytes()
}
