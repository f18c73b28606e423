package ticket

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namer map[string]string

func (n namer) FullName(code string) string {
	if name, ok := n[code]; ok {
		return name
	}
	return code
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func sampleRecord() *entity.FlightRecord {
	rec := entity.NewFlightRecord("ABC123")
	rec.FlightNumber = "AC8810"
	rec.Departure = entity.Departure{City: "Toronto", Airport: "Pearson", Code: "YYZ", Time: "10:30", Date: "20092025", Terminal: "1"}
	rec.Arrival = entity.Arrival{City: "Montreal", Airport: "Trudeau", Code: "YUL", Time: "11:15"}
	rec.Duration = "0h 45m"
	rec.Aircraft = "A333"
	return rec
}

func TestRender_WithAircraft(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "base.png"), 800, 260, color.White)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "aircraft"), 0o755))
	writePNG(t, filepath.Join(dir, "aircraft", "A333.png"), 350, 100, color.RGBA{B: 255, A: 255})

	r := NewRenderer(Options{
		BaseImage:   filepath.Join(dir, "base.png"),
		AircraftDir: filepath.Join(dir, "aircraft"),
		OutputDir:   filepath.Join(dir, "out"),
	}, namer{"A333": "Airbus A330-300"}, logger.NewNop())

	path, err := r.Render(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "ticket_AC8810.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(800, 260), img.Bounds().Size())

	// 350x100 shrinks to 175x50, centred in the box at (500,145)
	_, _, b, _ := img.At(587, 170).RGBA()
	assert.Greater(t, b, uint32(0x8000))
}

func TestRender_MissingAircraftImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "base.png"), 800, 260, color.White)

	r := NewRenderer(Options{
		BaseImage:   filepath.Join(dir, "base.png"),
		AircraftDir: filepath.Join(dir, "missing"),
		OutputDir:   dir,
	}, nil, logger.NewNop())

	path, err := r.Render(sampleRecord())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRender_MissingBase(t *testing.T) {
	r := NewRenderer(Options{BaseImage: filepath.Join(t.TempDir(), "nope.png")}, nil, logger.NewNop())
	_, err := r.Render(sampleRecord())
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 400))
	assert.Equal(t, image.Pt(170, 170), thumbnail(src, 175, 170).Bounds().Size())

	small := image.NewRGBA(image.Rect(0, 0, 50, 20))
	assert.Equal(t, image.Pt(50, 20), thumbnail(small, 175, 170).Bounds().Size())
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "unknown", fileSafe(" "))
	assert.Equal(t, "AC_88", fileSafe("AC/88"))
}

func TestAircraftPathStaysInDir(t *testing.T) {
	r := NewRenderer(Options{AircraftDir: "/srv/aircraft"}, nil, logger.NewNop())

	assert.Equal(t, filepath.Join("/srv/aircraft", "A333.png"), r.aircraftPath("A333"))
	for _, code := range []string{"../../etc/x", `..\..\x`, "/abs/x"} {
		path := r.aircraftPath(code)
		assert.Equal(t, "/srv/aircraft", filepath.Dir(path), code)
	}
}
