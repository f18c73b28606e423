package ticket

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/utils"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Aircraft picture box
const (
	planeMaxW = 175
	planeMaxH = 170
	planeBoxX = 500
	planeBoxY = 145
	planeBoxW = 175
	planeBoxH = 70
)

// Options locate the ticket assets
type Options struct {
	BaseImage   string
	FontLight   string
	FontRegular string
	AircraftDir string
	OutputDir   string
}

// AircraftNamer resolves an aircraft code to its full name
type AircraftNamer interface {
	FullName(code string) string
}

type faces struct {
	light    font.Face // 15
	flightNr font.Face // light 12
	regular  font.Face // 15
	small    font.Face // light 11
}

// Renderer draws boarding-pass images onto a base template
type Renderer struct {
	opts     Options
	faces    faces
	aircraft AircraftNamer
	logger   logger.Logger
}

// NewRenderer loads the fonts once. A font that cannot be loaded falls back to a bitmap face.
func NewRenderer(opts Options, aircraft AircraftNamer, logger logger.Logger) *Renderer {
	r := &Renderer{opts: opts, aircraft: aircraft, logger: logger}
	r.faces = faces{
		light:    r.loadFace(opts.FontLight, 15),
		flightNr: r.loadFace(opts.FontLight, 12),
		regular:  r.loadFace(opts.FontRegular, 15),
		small:    r.loadFace(opts.FontLight, 11),
	}
	return r
}

func (r *Renderer) loadFace(path string, size float64) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("Could not read ticket font, using fallback", "path", path, "error", err)
		return basicfont.Face7x13
	}
	f, err := opentype.Parse(data)
	if err != nil {
		r.logger.Warn("Could not parse ticket font, using fallback", "path", path, "error", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		r.logger.Warn("Could not create ticket font face, using fallback", "path", path, "error", err)
		return basicfont.Face7x13
	}
	return face
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// Render draws the ticket for rec and returns the written file path
func (r *Renderer) Render(rec *entity.FlightRecord) (string, error) {
	base, err := loadRGBA(r.opts.BaseImage)
	if err != nil {
		return "", fmt.Errorf("failed to open base image %s: %w", r.opts.BaseImage, err)
	}

	black := image.NewUniform(color.Black)
	depCity := orUnknown(rec.Departure.City)
	arrCity := orUnknown(rec.Arrival.City)

	drawText(base, r.faces.light, black, 93, 38, utils.FormatTicketDate(rec.Departure.Date))
	drawText(base, r.faces.small, black, 93, 59, depCity+" to "+arrCity)

	drawText(base, r.faces.light, black, 75, 105, orUnknown(rec.Departure.Time))
	drawText(base, r.faces.regular, black, 150, 105, depCity)
	drawText(base, r.faces.light, black, 150+advance(r.faces.regular, depCity+" "), 105, orUnknown(rec.Departure.Code))
	drawText(base, r.faces.small, black, 150, 125, "Terminal "+orUnknown(rec.Departure.Terminal)+" • "+orUnknown(rec.Departure.Airport))

	drawText(base, r.faces.flightNr, black, 170, 148, orUnknown(rec.FlightNumber)+" | Operated by Air Canada")
	drawText(base, r.faces.small, black, 170, 168, "Duration: "+orUnknown(rec.Duration))

	drawText(base, r.faces.light, black, 75, 200, orUnknown(rec.Arrival.Time))
	drawText(base, r.faces.regular, black, 150, 200, arrCity)
	drawText(base, r.faces.light, black, 150+advance(r.faces.regular, arrCity+" "), 200, orUnknown(rec.Arrival.Code))
	drawText(base, r.faces.small, black, 150, 220, orUnknown(rec.Arrival.Airport))

	if err := r.drawAircraft(base, rec.Aircraft); err != nil {
		return "", err
	}

	if r.opts.OutputDir != "" {
		if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create ticket dir: %w", err)
		}
	}
	out := filepath.Join(r.opts.OutputDir, "ticket_"+fileSafe(rec.FlightNumber)+".png")
	if err := savePNG(out, base); err != nil {
		return "", err
	}
	r.logger.Debug("Ticket rendered", "code", rec.Code, "path", out, "size", base.Bounds().Size().String())
	return out, nil
}

func (r *Renderer) drawAircraft(base *image.RGBA, code string) error {
	code = strings.TrimSpace(code)
	path := r.aircraftPath(code)
	plane, err := loadRGBA(path)
	if errors.Is(err, fs.ErrNotExist) || code == "" {
		drawText(base, r.faces.regular, image.NewUniform(color.RGBA{R: 255, A: 255}), 650, 200, orUnknown(code)+" (image missing)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open aircraft image %s: %w", path, err)
	}

	scaled := thumbnail(plane, planeMaxW, planeMaxH)
	size := scaled.Bounds().Size()
	offX := planeBoxX + (planeBoxW-size.X)/2
	offY := planeBoxY + (planeBoxH-size.Y)/2
	draw.Draw(base, image.Rect(offX, offY, offX+size.X, offY+size.Y), scaled, image.Point{}, draw.Over)

	name := code
	if r.aircraft != nil {
		name = r.aircraft.FullName(code)
	}
	drawText(base, r.faces.regular, image.NewUniform(color.Black), offX, offY+size.Y+5, name)
	return nil
}

// thumbnail shrinks img to fit maxW x maxH keeping its aspect ratio. It never enlarges.
func thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// drawText places s with its top-left corner at (x, y)
func drawText(dst draw.Image, face font.Face, src image.Image, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

func advance(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func loadRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// aircraftPath keeps free-text aircraft codes inside AircraftDir
func (r *Renderer) aircraftPath(code string) string {
	return filepath.Join(r.opts.AircraftDir, fileSafe(code)+".png")
}

func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
